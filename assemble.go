/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Seednode/frameguess/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type assembleConfig struct {
	screenshots string
	titles      string
	output      string
	frames      string
}

func (a *assembleConfig) validate() error {
	if a.screenshots == "" || a.titles == "" || a.output == "" {
		return errors.New("--screenshots, --titles and --output must not be empty")
	}
	return nil
}

func newAssembleCmd(v *viper.Viper) *cobra.Command {
	acfg := &assembleConfig{}

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Build the catalog files from a folder of screenshots and title lists.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := acfg.validate(); err != nil {
				return err
			}
			return runAssemble(cmd, acfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVar(&acfg.screenshots, "screenshots", "screenshots", "folder of per-episode screenshot folders (env: FRAMEGUESS_SCREENSHOTS)")
	fs.StringVar(&acfg.titles, "titles", "titles", "folder of <Language>.txt title lists (env: FRAMEGUESS_TITLES)")
	fs.StringVarP(&acfg.output, "output", "o", "data", "folder to write the catalog json files to (env: FRAMEGUESS_OUTPUT)")
	fs.StringVar(&acfg.frames, "copy-frames", "", "also copy every frame into this folder (env: FRAMEGUESS_COPY_FRAMES)")

	bindEnv(v, fs)

	return cmd
}

func runAssemble(cmd *cobra.Command, acfg *assembleConfig) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	a, err := catalog.Assemble(acfg.screenshots, acfg.titles)
	if err != nil {
		return err
	}

	if err := a.WriteJSON(acfg.output); err != nil {
		return err
	}

	c := a.Catalog
	fmt.Fprintf(out, "Wrote %d seasons, %d episodes and %d languages to %s\n",
		len(c.SeasonIDs()),
		len(c.Episodes()),
		len(c.Languages()),
		acfg.output,
	)

	if acfg.frames != "" {
		n, err := a.CopyFrames(acfg.frames)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Copied %d frames to %s\n", n, acfg.frames)
	}

	fmt.Fprintf(out, "Finished in %s\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}
