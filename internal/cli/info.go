package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/method"
	"github.com/smokyabdulrahman/adhan/internal/qibla"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the twilight angles and adjustments of every supported calculation method.",
		Args:  cobra.NoArgs,
		RunE:  runMethods,
	}
}

type methodJSON struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle,omitempty"`
	IshaInterval int     `json:"isha_interval,omitempty"`
	Adjustments  string  `json:"adjustments,omitempty"`
}

func runMethods(cmd *cobra.Command, args []string) error {
	infos := method.All()
	w := cmd.OutOrStdout()

	if FlagJSON {
		out := make([]methodJSON, len(infos))
		for i, m := range infos {
			out[i] = methodJSON{
				Name:         string(m.Method),
				Description:  m.Description,
				FajrAngle:    m.FajrAngle,
				IshaAngle:    m.IshaAngle,
				IshaInterval: m.IshaInterval,
				Adjustments:  m.Adjustments.String(),
			}
		}
		return printJSON(w, out)
	}

	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	tbl := display.NewTable([]string{"Name", "Fajr", "Isha", "Adjustments", "Authority"})
	for i, m := range infos {
		tbl.AddRow([]string{
			string(m.Method),
			fmt.Sprintf("%g°", m.FajrAngle),
			m.IshaLabel(),
			m.Adjustments.String(),
			m.Description,
		})
		if m.Method == method.Default {
			tbl.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <name> or 'adhan config set method <name>' to choose one.")
	return nil
}

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the direction of the Kaaba",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
}

func runQibla(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	c := s.settings.Coordinates
	d := qibla.From(c.Latitude, c.Longitude)

	if FlagJSON {
		return printJSON(cmd.OutOrStdout(), struct {
			Location locationJSON `json:"location"`
			qibla.Direction
		}{s.locationJSON(), d})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Qibla %s %.1f° (%s), %.0f km to the Kaaba\n",
		display.Accent(d.Compass), d.Bearing, s.place, d.DistanceKm)
	return nil
}
