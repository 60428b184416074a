package cli

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mogaika/figure_anim/config"
	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/module"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "figure_anim",
		Short:         "Drive sandboxed figure animation modules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to yaml config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log call timings")

	cmd.AddCommand(NewMetadataCommand(opts))
	cmd.AddCommand(NewPoseCommand(opts))
	cmd.AddCommand(NewGLTFCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func (opts *RootOptions) loadConfig() (*config.Config, error) {
	return config.Load(opts.ConfigPath)
}

func (opts *RootOptions) timed(what string, fn func() error) error {
	before := time.Now()
	err := fn()
	if opts.Verbose {
		log.Printf("%s: %f", what, time.Since(before).Seconds())
	}
	return err
}

// newHost instantiates a module and negotiates its metadata
func (opts *RootOptions) newHost() (*host.Host, error) {
	var h *host.Host
	if err := opts.timed("Instantiation", func() error {
		h = host.New(module.NewInstance())
		return nil
	}); err != nil {
		return nil, err
	}
	if err := opts.timed("Get metadata", func() error {
		_, err := h.LoadMetadata()
		return err
	}); err != nil {
		return nil, err
	}
	return h, nil
}
