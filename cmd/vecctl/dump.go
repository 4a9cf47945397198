package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/trivec/internal/mmfile"
	"github.com/joshuapare/trivec/vector"
)

var (
	dumpType  string
	dumpLimit int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpType, "type", "u32", "Element type: u8, u16, u32, u64, i32, i64, f32, f64")
	cmd.Flags().IntVar(&dumpLimit, "limit", 0, "Maximum elements to print (0 = all)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the elements of a TVEC file",
		Long: `The dump command maps a file written in TVEC format and prints its header
and elements, decoded as --type.

Example:
  vecctl dump set.tvec
  vecctl dump set.tvec --type u64 --limit 20
  vecctl dump set.tvec --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

// DumpResult is the decoded content of a TVEC file.
type DumpResult struct {
	File     string `json:"file"`
	Type     string `json:"type"`
	ItemSize int    `json:"item_size"`
	Count    int    `json:"count"`
	Elements []any  `json:"elements"`
}

func decodeElements[T any](data []byte, limit int) ([]any, error) {
	v, err := vector.Decode[T](data)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	n := v.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]any, 0, n)
	for _, x := range v.All() {
		if len(out) == n {
			break
		}
		out = append(out, x)
	}
	return out, nil
}

func decodeAs(typ string, data []byte, limit int) ([]any, error) {
	switch typ {
	case "u8":
		return decodeElements[uint8](data, limit)
	case "u16":
		return decodeElements[uint16](data, limit)
	case "u32":
		return decodeElements[uint32](data, limit)
	case "u64":
		return decodeElements[uint64](data, limit)
	case "i32":
		return decodeElements[int32](data, limit)
	case "i64":
		return decodeElements[int64](data, limit)
	case "f32":
		return decodeElements[float32](data, limit)
	case "f64":
		return decodeElements[float64](data, limit)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}

func runDump(args []string) error {
	path := args[0]
	printVerbose("Mapping file: %s\n", path)

	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("failed to map file: %w", err)
	}
	defer unmap()

	h, err := vector.ReadHeader(data)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	elems, err := decodeAs(dumpType, data, dumpLimit)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	res := DumpResult{
		File:     path,
		Type:     dumpType,
		ItemSize: h.ItemSize,
		Count:    h.Count,
		Elements: elems,
	}
	if jsonOut {
		return printJSON(res)
	}

	printInfo("File:      %s\n", res.File)
	printInfo("Item size: %d\n", res.ItemSize)
	printInfo("Count:     %s\n", formatNumber(int64(res.Count)))
	printInfo("\n")
	for i, x := range res.Elements {
		printInfo("  [%d] %v\n", i, x)
	}
	if len(res.Elements) < res.Count {
		printInfo("  ... %d more\n", res.Count-len(res.Elements))
	}
	return nil
}
