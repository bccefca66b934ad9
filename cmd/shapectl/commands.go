package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkeye/Sketch/internal/config"
	"github.com/dkeye/Sketch/internal/detect"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/dkeye/Sketch/internal/geometry"
	"github.com/dkeye/Sketch/internal/store"
)

var errNoPath = errors.New("input holds no path")

type classifyFlags struct {
	resample int
	canvas   float64
	verbose  bool
}

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:          "shapectl",
		Short:        "Classify sketch strokes offline",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	root.AddCommand(newClassifyCmd(), newReplayCmd())
	return root
}

func newClassifyCmd() *cobra.Command {
	var f classifyFlags
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify one path read from a file or stdin",
		Long: "The input is either a JSON array of {x,y} points or a pencil shapeData " +
			"object with a \"path\" field. With no file, stdin is read.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			path, err := readPath(in)
			if err != nil {
				return err
			}
			c := detect.NewClassifier(detect.Config{ResamplePoints: f.resample, CanvasSize: f.canvas})
			return writeClassification(cmd.OutOrStdout(), c, path, f.verbose)
		},
	}
	cmd.Flags().IntVar(&f.resample, "resample", detect.DefaultResamplePoints, "points after resampling")
	cmd.Flags().Float64Var(&f.canvas, "canvas", detect.DefaultCanvasSize, "normalization canvas size")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "include per-family scores")
	return cmd
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <roomId>",
		Short: "Re-classify the pencil strokes stored for a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room := domain.RoomID(args[0])
			if err := room.Validate(); err != nil {
				return fmt.Errorf("room %q: %w", args[0], err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			events, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer events.Close()

			list, err := events.ListByRoom(cmd.Context(), room)
			if err != nil {
				return err
			}
			c := detect.NewClassifier(detect.Config{
				ResamplePoints: cfg.Detect.ResamplePoints,
				CanvasSize:     cfg.Detect.CanvasSize,
				Stroke:         cfg.Detect.Stroke,
			})
			return writeReplay(cmd.OutOrStdout(), c, list, cfg.Detect.MinPoints, cfg.Detect.CompletionThreshold)
		},
	}
	return cmd
}

// readPath accepts a bare point array or a pencil shapeData object.
func readPath(r io.Reader) (geometry.Path, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errNoPath
	}

	var path geometry.Path
	if raw[0] == '[' {
		err = json.Unmarshal(raw, &path)
	} else {
		var pencil domain.PencilData
		err = json.Unmarshal(raw, &pencil)
		path = pencil.Path
	}
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	if len(path) == 0 {
		return nil, errNoPath
	}
	return path, nil
}

type classification struct {
	detect.Result
	Scores map[detect.Label]float64 `json:"scores,omitempty"`
}

func writeClassification(w io.Writer, c *detect.Classifier, path geometry.Path, verbose bool) error {
	out := classification{Result: c.Classify(path)}
	if verbose {
		out.Scores = c.Scores(path)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeReplay(w io.Writer, c *detect.Classifier, events []store.StoredEvent, minPoints int, threshold float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tPOINTS\tLABEL\tCONFIDENCE\tCOMPLETES")

	labels := map[detect.Label]int{}
	for _, e := range events {
		if e.ShapeType != domain.ShapePencil {
			continue
		}
		var pencil domain.PencilData
		if err := json.Unmarshal(e.ShapeData, &pencil); err != nil {
			fmt.Fprintf(tw, "%s\t%s\t-\tunreadable\t-\t-\n", e.ID, e.UserID)
			continue
		}
		if len(pencil.Path) < minPoints {
			fmt.Fprintf(tw, "%s\t%s\t%d\tskipped\t-\t-\n", e.ID, e.UserID, len(pencil.Path))
			continue
		}
		res := c.Classify(pencil.Path)
		completes := res.Label != detect.LabelUnknown && res.Confidence >= threshold
		labels[res.Label]++
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.3f\t%t\n", e.ID, e.UserID, len(pencil.Path), res.Label, res.Confidence, completes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	names := make([]string, 0, len(labels))
	for l := range labels {
		names = append(names, string(l))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%s: %d\n", n, labels[detect.Label(n)])
	}
	return nil
}
