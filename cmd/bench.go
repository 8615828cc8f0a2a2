package main

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/rand"
	"time"

	"ChunkBuf/pkg/chunk"
	"ChunkBuf/pkg/utils"

	"github.com/urfave/cli/v2"
)

func newBenchBuffer(c *cli.Context) *chunk.Buffer {
	var b *chunk.Buffer
	var err error
	if c.Bool("off-heap") {
		b, err = chunk.NewOffHeap(c.Int("chunk-size"))
	} else {
		b, err = chunk.NewSize(c.Int("chunk-size"))
	}
	if err != nil {
		logger.Fatalf("create buffer: %s", err)
	}
	return b
}

func bench(c *cli.Context) error {
	setup(c)
	blockSize := c.Int("block-size")
	if blockSize <= 0 {
		logger.Fatalf("invalid block size %d", blockSize)
	}
	total := c.Int64("size") << 20
	count := total / int64(blockSize)
	if count == 0 {
		logger.Fatalf("size too small for block size %d", blockSize)
	}
	total = count * int64(blockSize)
	bw := c.Int64("bandwidth") << 20

	b := newBenchBuffer(c)
	defer b.Close()
	logger.Debugf("benchmarking %s", b)

	block := make([]byte, blockSize)
	if _, err := crand.Read(block); err != nil {
		logger.Fatalf("random data: %s", err)
	}

	progress, bar := utils.NewDynProgressBar("write: ", c.Bool("quiet"))
	bar.SetTotal(count, false)
	w, err := b.NewWriter()
	if err != nil {
		logger.Fatalf("writer: %s", err)
	}
	var out chunk.WriteCloser = w
	if bw > 0 {
		out = chunk.NewLimitedWriter(w, bw)
	}
	start := time.Now()
	for i := int64(0); i < count; i++ {
		if _, err = out.Write(block); err != nil {
			logger.Fatalf("write block %d: %s", i, err)
		}
		bar.Increment()
	}
	_ = out.Close()
	writeCost := time.Since(start)
	bar.SetTotal(count, true)
	progress.Wait()

	progress, bar = utils.NewDynProgressBar("read: ", c.Bool("quiet"))
	bar.SetTotal(count, false)
	r, err := b.NewReader()
	if err != nil {
		logger.Fatalf("reader: %s", err)
	}
	var in chunk.ReadCloser = r
	if bw > 0 {
		in = chunk.NewLimitedReader(r, bw)
	}
	dest := make([]byte, blockSize)
	var got int64
	start = time.Now()
	for {
		n, err := in.Read(dest)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Fatalf("read: %s", err)
		}
		got += int64(n)
		bar.Increment()
	}
	_ = in.Close()
	readCost := time.Since(start)
	bar.SetTotal(count, true)
	progress.Wait()
	if got != total {
		logger.Fatalf("read %d bytes, expect %d", got, total)
	}

	randomCount := c.Int("random")
	start = time.Now()
	for i := 0; i < randomCount; i++ {
		off := rand.Int63n(total)
		if err := b.PutByte(byte(i), off); err != nil {
			logger.Fatalf("put byte at %d: %s", off, err)
		}
		if _, err := b.GetByte(off); err != nil {
			logger.Fatalf("get byte at %d: %s", off, err)
		}
	}
	randomCost := time.Since(start)

	size, _ := b.Size()
	allocated, _ := b.AllocatedSize()
	ru := utils.GetRusage()
	fmt.Printf("written %d MiB in %.2fs (%.1f MiB/s)\n", total>>20, writeCost.Seconds(),
		float64(total>>20)/writeCost.Seconds())
	fmt.Printf("read    %d MiB in %.2fs (%.1f MiB/s)\n", got>>20, readCost.Seconds(),
		float64(got>>20)/readCost.Seconds())
	if randomCount > 0 {
		fmt.Printf("%d random byte round-trips in %s\n", randomCount, randomCost)
	}
	fmt.Printf("used %d bytes, allocated %d bytes, off-heap %d bytes\n",
		size, allocated, utils.AllocatedMemory())
	logger.Infof("CPU usage: %.1fs user, %.1fs system, clock %s",
		ru.GetUtime(), ru.GetStime(), utils.Clock())
	return nil
}

func benchFlags() *cli.Command {
	return &cli.Command{
		Name:   "bench",
		Usage:  "measure sequential and random throughput of a buffer",
		Action: bench,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "chunk-size",
				Value: chunk.DefaultChunkSize,
				Usage: "size of a chunk in bytes",
			},
			&cli.IntFlag{
				Name:  "block-size",
				Value: 4096,
				Usage: "size of each sequential I/O in bytes",
			},
			&cli.Int64Flag{
				Name:  "size",
				Value: 64,
				Usage: "total data to write in MiB",
			},
			&cli.IntFlag{
				Name:  "random",
				Value: 10000,
				Usage: "number of random byte round-trips",
			},
			&cli.Int64Flag{
				Name:  "bandwidth",
				Usage: "limit cursor bandwidth in MiB/s",
			},
			&cli.BoolFlag{
				Name:  "off-heap",
				Usage: "allocate chunks outside the Go heap",
			},
		},
	}
}
