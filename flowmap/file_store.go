package flowmap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/exp/mmap"

	"github.com/notargets/golcs/grid"
)

/*
FileStore keeps one binary file per key under Dir. Reads go through a memory
mapping that stays open for the life of the store, so the repeated out of order
reads made while composing do not reopen or reparse the file. Writes go to a
temporary file in Dir that is renamed over the entry, so an interrupted run
never leaves a partial entry behind.
*/
type FileStore struct {
	Dir     string
	mu      sync.Mutex
	readers map[Key]*mmap.ReaderAt
}

func NewFileStore(dir string) (fst *FileStore, err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	fst = &FileStore{
		Dir:     dir,
		readers: make(map[Key]*mmap.ReaderAt),
	}
	return
}

func (fst *FileStore) Path(key Key) string {
	return filepath.Join(fst.Dir, key.String()+".bin")
}

func (fst *FileStore) Write(key Key, p *grid.Position) (err error) {
	var (
		tmp *os.File
		buf = Encode(p)
	)
	if tmp, err = os.CreateTemp(fst.Dir, key.String()+".*.tmp"); err != nil {
		return
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(buf); err != nil {
		tmp.Close()
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	fst.mu.Lock()
	defer fst.mu.Unlock()
	fst.release(key)
	if err = os.Rename(tmp.Name(), fst.Path(key)); err != nil {
		return fmt.Errorf("unable to store flow map %s: %w", key, err)
	}
	return
}

func (fst *FileStore) Read(key Key, p *grid.Position) (err error) {
	var (
		r *mmap.ReaderAt
	)
	fst.mu.Lock()
	defer fst.mu.Unlock()
	if r, err = fst.reader(key); err != nil {
		return
	}
	if r.Len() != BlobSize(p.Lattice) {
		return fmt.Errorf("%w: %s has %d bytes, need %d",
			ErrCorruptEntry, fst.Path(key), r.Len(), BlobSize(p.Lattice))
	}
	buf := make([]byte, r.Len())
	if _, err = r.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("reading %s: %w", fst.Path(key), err)
	}
	if err = Decode(buf, p); err != nil {
		return
	}
	p.Time = key.Time()
	return
}

func (fst *FileStore) Has(key Key) bool {
	_, err := os.Stat(fst.Path(key))
	return err == nil
}

func (fst *FileStore) Size(key Key) (size int, err error) {
	var (
		fi os.FileInfo
	)
	if fi, err = os.Stat(fst.Path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrCacheMiss, fst.Path(key))
		}
		return
	}
	size = int(fi.Size())
	return
}

func (fst *FileStore) Delete(key Key) (err error) {
	fst.mu.Lock()
	defer fst.mu.Unlock()
	fst.release(key)
	if err = os.Remove(fst.Path(key)); errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	return
}

// Close unmaps every open entry. The files stay on disk.
func (fst *FileStore) Close() (err error) {
	fst.mu.Lock()
	defer fst.mu.Unlock()
	for key, r := range fst.readers {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
		delete(fst.readers, key)
	}
	return
}

func (fst *FileStore) reader(key Key) (r *mmap.ReaderAt, err error) {
	var (
		ok bool
	)
	if r, ok = fst.readers[key]; ok {
		return
	}
	if r, err = mmap.Open(fst.Path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrCacheMiss, fst.Path(key))
		}
		return
	}
	fst.readers[key] = r
	return
}

func (fst *FileStore) release(key Key) {
	if r, ok := fst.readers[key]; ok {
		r.Close()
		delete(fst.readers, key)
	}
}
