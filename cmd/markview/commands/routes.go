package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/markview/internal/site"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct{}

func (*RoutesCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	st, err := site.New(cfg, site.Options{Logger: slog.Default()})
	if err != nil {
		return err
	}
	return PrintRoutes(os.Stdout, st)
}

// PrintRoutes writes the routing table in match order followed by the
// stylesheets in link order.
func PrintRoutes(out io.Writer, st *site.Site) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tKIND\tTARGET")
	for _, info := range st.Routes() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Path, info.Kind, info.Target)
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "STYLESHEET\tSOURCE\t")
	for _, e := range st.Stylesheets.Ordered() {
		source := e.Path
		if e.IsBundled() {
			source = "(bundled)"
		}
		_, _ = fmt.Fprintf(tw, "%s/%s\t%s\t\n", st.Config.CSSMount, e.Name, source)
	}
	return tw.Flush()
}
