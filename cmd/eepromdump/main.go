// Command eepromdump inspects (and optionally erases) file-backed EEPROM
// images produced by the eeprom package.
//
// It walks the entry directory from address 0 and prints one line per entry,
// active and orphaned alike, then an optional full hex dump.
package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	eeprom "github.com/luhtfiimanal/go-eeprom"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eepromdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file     = fs.String("file", "", "path to the EEPROM image")
		capacity = fs.Int("capacity", 512, "device capacity in bytes (ignored when a sidecar config exists)")
		dump     = fs.Bool("dump", false, "hex dump the full device after the entry listing")
		wipe     = fs.Bool("wipe", false, "overwrite the whole image with the erased sentinel first")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(stderr, "eepromdump: --file is required")
		fs.PrintDefaults()
		return 2
	}

	dev, err := eeprom.NewFileDevice(*file, *capacity)
	if err != nil {
		fmt.Fprintf(stderr, "eepromdump: %v\n", err)
		return 1
	}
	if err := dev.Begin(0); err != nil {
		fmt.Fprintf(stderr, "eepromdump: %v\n", err)
		return 1
	}
	defer dev.Close()

	if *wipe {
		if err := erase(dev); err != nil {
			fmt.Fprintf(stderr, "eepromdump: wipe: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wiped %d bytes\n", dev.Length())
	}

	entries, err := eeprom.Scan(dev)
	if err != nil {
		fmt.Fprintf(stderr, "eepromdump: scan: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "no entries")
	}
	for _, e := range entries {
		state := "intact"
		if !e.Intact {
			state = "corrupt"
		}
		fmt.Fprintf(stdout, "addr=%-6d key=0x%04X writes=%-8d len=%-5d %s\n",
			e.Address, e.Key, e.WriteCount, e.Length, state)
	}

	if *dump {
		if err := eeprom.Dump(dev, stdout); err != nil {
			fmt.Fprintf(stderr, "eepromdump: dump: %v\n", err)
			return 1
		}
	}
	return 0
}

// erase fills the whole device with the erased sentinel and commits.
func erase(dev eeprom.Device) error {
	const chunk = 256
	fill := make([]byte, chunk)
	for i := range fill {
		fill[i] = 0xFF
	}
	for addr := 0; addr < dev.Length(); addr += chunk {
		n := chunk
		if addr+n > dev.Length() {
			n = dev.Length() - addr
		}
		if err := dev.Put(addr, fill[:n]); err != nil {
			return err
		}
	}
	if c, ok := dev.(eeprom.Committer); ok {
		return c.Commit()
	}
	return nil
}
