package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/espcam/campanel/internal/log"
	"github.com/espcam/campanel/pkg/control"
)

// Status prints the current device configuration.
type Status struct {
	Format string `help:"Output format: table, json, yaml, toml" default:"table" enum:"table,json,yaml,toml" short:"f"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the status command is executed.
func (s *Status) Run(logger *slog.Logger, rawLogger log.RawLogger, dev *Device) error {
	c := dev.Client(logger, rawLogger)
	snap, err := c.FetchAll(context.Background())
	if err != nil {
		return err
	}
	return writeSnapshot(stdout(s.Out), s.Format, c.Controls(), snap)
}

func writeSnapshot(w io.Writer, format string, controls *control.Registry, snap control.Snapshot) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(snap.Native(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		b, err := yaml.Marshal(snap.Native())
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "toml":
		tree, err := toml.TreeFromMap(snap.Native())
		if err != nil {
			return err
		}
		_, err = tree.WriteTo(w)
		return err
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CONTROL\tLABEL\tKIND\tVALUE")
		for _, def := range controls.All() {
			v, ok := snap[def.ID]
			if !ok || def.Kind == control.KindTrigger {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.ID, def.Label, def.Kind, describe(def, v))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// describe renders choice values with their option label.
func describe(def control.Definition, v control.Value) string {
	if def.Kind == control.KindChoice {
		if n, ok := v.Int(); ok && n >= 0 && n < len(def.Options) && def.Options[n] != "" {
			return fmt.Sprintf("%s (%s)", v, def.Options[n])
		}
	}
	return v.String()
}
