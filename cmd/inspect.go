package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ChunkBuf/pkg/chunk"

	"github.com/urfave/cli/v2"
)

type summary struct {
	ID            string
	ChunkSize     int
	Size          int64
	AllocatedSize int64
	Chunks        int64
}

func printJson(v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatalf("json: %s", err)
	}
	fmt.Println(string(output))
}

func inspect(c *cli.Context) error {
	setup(c)
	b, err := chunk.NewSize(c.Int("chunk-size"))
	if err != nil {
		logger.Fatalf("create buffer: %s", err)
	}
	defer b.Close()

	w, err := b.NewWriter()
	if err != nil {
		logger.Fatalf("writer: %s", err)
	}
	n, err := io.Copy(w, os.Stdin)
	if err != nil {
		logger.Fatalf("fill from stdin: %s", err)
	}
	_ = w.Close()
	logger.Debugf("filled %d bytes from stdin", n)

	size, err := b.Size()
	if err != nil {
		logger.Fatalf("size: %s", err)
	}
	allocated, err := b.AllocatedSize()
	if err != nil {
		logger.Fatalf("allocated size: %s", err)
	}
	printJson(&summary{
		ID:            b.ID(),
		ChunkSize:     b.ChunkSize(),
		Size:          size,
		AllocatedSize: allocated,
		Chunks:        allocated / int64(b.ChunkSize()),
	})
	return nil
}

func inspectFlags() *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "fill a buffer from stdin and print its layout",
		Action: inspect,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "chunk-size",
				Value: chunk.DefaultChunkSize,
				Usage: "size of a chunk in bytes",
			},
		},
	}
}
