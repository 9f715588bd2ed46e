package blob

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxBaseLen = 20

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// DiskStore keeps blobs as plain files in Dir and hands out references under
// Prefix, e.g. "/uploads/1744202434083-test.png".
type DiskStore struct {
	Dir    string
	Prefix string
}

func NewDiskStore(dir, prefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{Dir: dir, Prefix: strings.TrimSuffix(prefix, "/")}, nil
}

func (d *DiskStore) Put(originalName string, data io.Reader) (string, error) {
	name := d.storedName(originalName)
	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return d.Prefix + "/" + name, nil
}

func (d *DiskStore) Remove(ref string) error {
	// Base strips any directory part, so a ref can never escape Dir.
	name := path.Base(ref)
	if name == "." || name == "/" {
		return fmt.Errorf("invalid blob reference %q", ref)
	}
	return os.Remove(filepath.Join(d.Dir, name))
}

// storedName prefixes the current unix-millis timestamp and keeps at most
// maxBaseLen sanitized characters of the original base name, extension
// preserved.
func (d *DiskStore) storedName(originalName string) string {
	ext := path.Ext(originalName)
	base := strings.TrimSuffix(path.Base(originalName), ext)
	base = unsafeChars.ReplaceAllString(base, "")
	if len(base) > maxBaseLen {
		base = base[:maxBaseLen]
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), base, ext)
}
