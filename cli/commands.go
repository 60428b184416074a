package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/config"
	"github.com/mogaika/figure_anim/gltfexport"
	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/module"
	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/utils"
	"github.com/mogaika/figure_anim/web"
)

func NewMetadataCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the capability descriptor of the animation module",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.newHost()
			if err != nil {
				return err
			}
			md, err := h.Metadata()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), utils.SDump(md))
			return nil
		},
	}
}

type poseOptions struct {
	kind     string
	anim     string
	preset   string
	animTime float64
	rate     float32
}

func (po *poseOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&po.kind, "kind", "k", skeleton.KIND_CHARACTER.String(), "skeleton kind")
	cmd.Flags().StringVarP(&po.anim, "anim", "a", "idle", "animation name")
	cmd.Flags().StringVarP(&po.preset, "preset", "p", config.DEFAULT_PRESET, "attribute preset")
	cmd.Flags().Float64VarP(&po.animTime, "time", "t", 0, "animation time in seconds")
	cmd.Flags().Float32VarP(&po.rate, "rate", "r", 1, "playback rate")
}

// run computes one pose through a fresh module instance
func (po *poseOptions) run(opts *RootOptions) (*abi.AnimReturn, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	kind, err := skeleton.ParseKind(po.kind)
	if err != nil {
		return nil, err
	}
	if kind != skeleton.KIND_CHARACTER {
		return nil, errors.Wrapf(skeleton.ErrUnknownKind, "no presets for %v", kind)
	}
	attr, err := cfg.Preset(po.preset)
	if err != nil {
		return nil, err
	}

	h, err := opts.newHost()
	if err != nil {
		return nil, err
	}

	from, _, err := skeleton.New(kind)
	if err != nil {
		return nil, err
	}
	req := &host.Request{Skeleton: from, Attr: attr}

	var ret *abi.AnimReturn
	err = opts.timed("Update skeleton", func() (err error) {
		ret, err = h.Animate(kind, po.anim, po.animTime, po.rate, req)
		return err
	})
	return ret, err
}

func NewPoseCommand(opts *RootOptions) *cobra.Command {
	po := &poseOptions{}
	cmd := &cobra.Command{
		Use:   "pose",
		Short: "Compute one pose and print bones, world matrices and light position",
		RunE: func(cmd *cobra.Command, args []string) error {
			ret, err := po.run(opts)
			if err != nil {
				return err
			}
			mats, light := ret.Skeleton.ComputeMatrices()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, utils.SDump(ret))
			for i, m := range mats {
				fmt.Fprintf(out, "%-10s %v\n", skeleton.CharacterSlotNames[i], m.Mat4())
			}
			fmt.Fprintf(out, "light      %v\n", light)
			return nil
		},
	}
	po.bind(cmd)
	return cmd
}

func NewGLTFCommand(opts *RootOptions) *cobra.Command {
	po := &poseOptions{}
	var output string
	cmd := &cobra.Command{
		Use:   "gltf",
		Short: "Export one pose as a binary glTF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ret, err := po.run(opts)
			if err != nil {
				return err
			}
			doc := gltfexport.NewDocument()
			gltfexport.Pose(doc, fmt.Sprintf("%s_%s", po.kind, po.anim), ret.Skeleton)

			f, err := os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "Failed to create %q", output)
			}
			defer f.Close()
			return gltfexport.WriteBinary(f, doc)
		},
	}
	po.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "pose.glb", "output file")
	return cmd
}

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pose viewer api",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			pool, err := host.NewPool(cfg.Instances, func() host.Exports {
				return module.NewInstance()
			})
			if err != nil {
				return err
			}
			return web.NewServer(cfg, pool).Start(cfg.Addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "i", "", "address of server, overrides config")
	return cmd
}
