// Command sgaextract streams every file out of an SGA archive onto
// disk, preserving its tree path under an output directory.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"sgafs"
)

func main() {
	flag.Parse()
	if flag.NArg() < 2 {
		log.Fatalf("usage: %s <archive.sga> <output-dir>", os.Args[0])
	}
	archivePath := flag.Arg(0)
	outDir := flag.Arg(1)

	a, err := sga.Open(archivePath)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer a.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	if err := extract(a, a.Root(), outDir); err != nil {
		log.Fatalf("extract: %v", err)
	}
}

func extract(a *sga.Archive, folder *sga.Folder, outDir string) error {
	for _, item := range folder.Children() {
		outPath := filepath.Join(outDir, item.Name())
		switch item.Kind() {
		case sga.KindFolder:
			sub := item.(*sga.Folder)
			if err := os.MkdirAll(outPath, 0o755); err != nil {
				return err
			}
			if err := extract(a, sub, outPath); err != nil {
				return err
			}
		case sga.KindFile:
			file := item.(*sga.File)
			if err := extractFile(a, file, outPath); err != nil {
				return fmt.Errorf("extract %s: %w", outPath, err)
			}
		}
	}
	return nil
}

func extractFile(a *sga.Archive, file *sga.File, outPath string) error {
	stream, err := a.OpenStream(file)
	if err != nil {
		return err
	}
	defer stream.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			log.Printf("close %s: %v", outPath, cerr)
		}
	}()

	written, err := io.Copy(out, stream)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %s (%d bytes)\n", outPath, written)
	return nil
}
