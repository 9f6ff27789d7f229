// Command sgalist dumps an SGA archive's directory tree as JSON, with
// an optional concurrent validation pass over every file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"sync"

	"sgafs"
)

type entry struct {
	Path         string `json:"path"`
	Kind         string `json:"kind"`
	Size         uint32 `json:"size,omitempty"`
	SizeOnDisk   uint32 `json:"sizeOnDisk,omitempty"`
	Type         byte   `json:"type,omitempty"`
	SectionAlias string `json:"sectionAlias,omitempty"`
	Modified     string `json:"modified,omitempty"`
	Validation   string `json:"validation,omitempty"`
}

func main() {
	validate := flag.Bool("validate", false, "validate every file's CRC32 concurrently")
	workers := flag.Int("workers", runtime.NumCPU(), "worker count for -validate")
	listAttrs := flag.Bool("attrs", false, "list the known archive/item attribute names and exit")
	flag.Parse()

	if *listAttrs {
		printAttributeNames()
		return
	}
	if flag.NArg() < 1 {
		log.Fatalf("usage: %s [-validate] [-workers N] [-attrs] <archive.sga>", os.Args[0])
	}
	archivePath := flag.Arg(0)

	a, err := sga.Open(archivePath)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer a.Close()

	entries, files := walk(a, a.Root(), "")

	if *validate {
		validateConcurrently(a, entries, files, *workers)
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(b))
}

// walk flattens the tree depth-first into entries, returning in
// lockstep the *entry and *sga.File pairs for files so a later
// validation pass can report back into the same slice.
func walk(a *sga.Archive, folder *sga.Folder, prefix string) (all []*entry, files []fileRef) {
	for _, item := range folder.Children() {
		p := path.Join(prefix, item.Name())
		switch item.Kind() {
		case sga.KindFolder:
			f := item.(*sga.Folder)
			e := &entry{Path: p, Kind: "folder"}
			if alias, err := a.ItemAttribute(f, sga.AttrSectionAlias); err == nil {
				e.SectionAlias = alias.Str
			}
			all = append(all, e)
			sub, subFiles := walk(a, f, p)
			all = append(all, sub...)
			files = append(files, subFiles...)
		case sga.KindFile:
			file := item.(*sga.File)
			e := &entry{
				Path:       p,
				Kind:       "file",
				Size:       a.FileSize(file),
				SizeOnDisk: a.FileSizeOnDisk(file),
			}
			if t, err := a.ItemAttribute(file, sga.AttrType); err == nil {
				e.Type = byte(t.Uint)
			}
			if m, err := a.ItemAttribute(file, sga.AttrModified); err == nil {
				e.Modified = m.Str
			}
			all = append(all, e)
			files = append(files, fileRef{entry: e, file: file})
		}
	}
	return all, files
}

// printAttributeNames enumerates the fixed archive/item attribute ids
// by name, the way a host browsing an unfamiliar attribute id would.
func printAttributeNames() {
	for id := 0; id < sga.ArchiveAttributeCount(); id++ {
		name, _ := sga.ArchiveAttributeName(sga.ArchiveAttributeID(id))
		fmt.Printf("archive[%d] = %s\n", id, name)
	}
	for id := 0; id < sga.ItemAttributeCount(); id++ {
		name, _ := sga.ItemAttributeName(sga.ItemAttributeID(id))
		fmt.Printf("item[%d] = %s\n", id, name)
	}
}

type fileRef struct {
	entry *entry
	file  *sga.File
}

// validateConcurrently runs Archive.Validate over every file with a
// bounded worker pool of goroutines fanning out over independent work
// items inside one already-open, read-only archive.
func validateConcurrently(a *sga.Archive, _ []*entry, files []fileRef, workers int) {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan fileRef)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				result, err := a.Validate(ref.file, nil)
				if err != nil {
					ref.entry.Validation = fmt.Sprintf("error: %v", err)
					continue
				}
				ref.entry.Validation = result.String()
			}
		}()
	}
	for _, ref := range files {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()
}
