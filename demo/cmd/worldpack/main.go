// Command worldpack batch-converts saved quadworld files between the two
// endianness flags, one goroutine per file.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/quadworld"
	"github.com/phanxgames/quadworld/demo"
)

func main() {
	toBig := flag.Bool("big", false, "write output files big-endian (default little-endian)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: worldpack [-big] <file.qw> [more files...]")
		os.Exit(2)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			return repack(ctx, path, *toBig)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

// repack reads path with both endianness flags (one is expected to fail
// decoding cleanly), re-serializes with the flag toBig requests, and
// writes the result back in place.
func repack(ctx context.Context, path string, toBig bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	reg := demo.NewGroundTileRegistry()

	var qt *quadworld.Quadtree[demo.GroundTile]
	for _, big := range []bool{false, true} {
		qt, err = quadworld.DeserializeQuadtree[demo.GroundTile](bytes.NewReader(raw), big, reg.Decode)
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%s: could not decode with either endianness: %w", path, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	out := qt.Serialize(toBig)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
