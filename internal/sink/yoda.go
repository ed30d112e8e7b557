package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"hf-selopt/internal/store"
)

// WriteYODA writes every counter of st as YODA text.
func WriteYODA(w io.Writer, st *store.Store) error {
	bw := bufio.NewWriter(w)
	for _, h := range ToHbook(st) {
		var (
			raw []byte
			err error
		)
		if h.H1 != nil {
			raw, err = h.H1.MarshalYODA()
		} else {
			raw, err = h.H2.MarshalYODA()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", h.Name, err)
		}
		if _, err := bw.Write(raw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteYODAFile(path string, st *store.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteYODA(f, st); err != nil {
		return err
	}
	return f.Close()
}
