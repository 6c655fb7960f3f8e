package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-operator/catalog"
	"github.com/lixenwraith/vi-operator/config"
	"github.com/lixenwraith/vi-operator/event"
	"github.com/lixenwraith/vi-operator/parameter"
	"github.com/lixenwraith/vi-operator/scenario"
)

var enhanceKeys = []string{"Enhance_Physical", "Enhance_Optical", "Enhance_ForceField", "Enhance_CoreTech"}

// report collects content findings; problems fail the check
type report struct {
	problems []string
	warnings []string
}

func (r *report) problem(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

func (r *report) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var catalogPath, scenarioPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration, catalog and scenario content",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			if catalogPath == "" {
				catalogPath = cfg.Catalog
			}
			book, err := catalog.LoadFile(catalogPath, catalog.FirstSelector)
			if err != nil {
				return err
			}
			var script *scenario.Script
			if scenarioPath != "" {
				if script, err = scenario.Load(scenarioPath); err != nil {
					return err
				}
			}

			rep := checkContent(cfg, book, script)
			out := cmd.OutOrStdout()
			for _, w := range rep.warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, p := range rep.problems {
				fmt.Fprintf(out, "error: %s\n", p)
			}
			if len(rep.problems) > 0 {
				return fmt.Errorf("check failed with %d problem(s)", len(rep.problems))
			}
			fmt.Fprintf(out, "ok: %d operator catalog(s), config %s\n", len(book.Operators()), ctx.configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (overrides config)")
	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "Scenario script to cross-check")
	return cmd
}

// checkContent verifies every line the roster can reach is authored
func checkContent(cfg config.Config, book *catalog.Book, script *scenario.Script) report {
	var rep report

	names := slices.Clone(cfg.Roster.Names)
	slices.Sort(names)
	names = slices.Compact(names)

	for _, name := range names {
		strs, err := book.For(name)
		if err != nil {
			rep.problem("operator %s has no catalog", name)
			continue
		}
		for _, key := range parameter.DurabilityKeys {
			if !strs.Has(key) {
				rep.problem("operator %s: missing %s", name, key)
			}
		}
		if script == nil {
			continue
		}
		checkScript(&rep, name, strs, script)
	}
	return rep
}

func checkScript(rep *report, name string, strs *catalog.Catalog, script *scenario.Script) {
	if script.Mode == scenario.ModeMission {
		for _, key := range enhanceKeys {
			if !strs.Has(key) {
				rep.problem("operator %s: missing %s", name, key)
			}
		}
		for _, wave := range script.Waves {
			for _, prefix := range []string{parameter.WaveStartPrefix, parameter.WaveEndPrefix} {
				key := prefix + script.Mission + "_" + wave
				if !strs.Has(key) {
					rep.warn("operator %s: no line for %s, wave is silent", name, key)
				}
			}
		}
	}

	for _, step := range script.Steps {
		p, ok := step.Event.Payload.(*event.OperateStringPayload)
		if !ok {
			continue
		}
		if script.Mode != scenario.ModeTutorial {
			rep.warn("step at %s: tutorial line %s ignored in mission mode", step.At, p.Key)
			continue
		}
		if !strs.Has(p.Key) {
			rep.problem("operator %s: missing tutorial line %s", name, p.Key)
		}
	}
}
