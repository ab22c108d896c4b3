package imagestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/xelobcoder/listing/pkg/customerror"
)

// ReferencePrefix is the public path prefix handed back to clients; the image
// endpoint resolves it back into the upload directory.
const ReferencePrefix = "/uploads/properties/"

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type ImageStoreI interface {
	Save(listingId string, src io.Reader, originalName string) (string, error)
	Load(reference string) ([]byte, string, error)
	Remove(reference string) error
}

// ImageStore writes uploads as {listingId}-{sequence}.{ext}. Sequence numbers
// are handed out under a mutex and seeded from the highest suffix already on
// disk, so concurrent uploads for one listing never collide and deleted files
// never cause a number to be reused.
type ImageStore struct {
	dir             string
	placeholderPath string
	mu              sync.Mutex
	sequences       map[string]int
}

func NewImageStore(dir, placeholderPath string) ImageStoreI {
	return &ImageStore{
		dir:             dir,
		placeholderPath: placeholderPath,
		sequences:       map[string]int{},
	}
}

func (imageStore *ImageStore) Save(listingId string, src io.Reader, originalName string) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[fileExt]; !ok {
		return "", customerror.NewError(customerror.ErrValidation, "ImageStore.Save", "", "invalid file extension "+fileExt)
	}
	if err := os.MkdirAll(imageStore.dir, 0755); err != nil {
		return "", customerror.NewError(customerror.ErrStorage, "ImageStore.Save.MkdirAll", "", err.Error())
	}
	sequence, err := imageStore.nextSequence(listingId)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s-%d%s", listingId, sequence, fileExt)

	// Write through a temp file so a failed upload never leaves a partial
	// image behind under its final name.
	tmp, err := os.CreateTemp(imageStore.dir, "upload-*")
	if err != nil {
		return "", customerror.NewError(customerror.ErrStorage, "ImageStore.Save.CreateTemp", "", err.Error())
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", customerror.NewError(customerror.ErrStorage, "ImageStore.Save.Copy", "", err.Error())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", customerror.NewError(customerror.ErrStorage, "ImageStore.Save.Close", "", err.Error())
	}
	if err := os.Rename(tmp.Name(), filepath.Join(imageStore.dir, filename)); err != nil {
		os.Remove(tmp.Name())
		return "", customerror.NewError(customerror.ErrStorage, "ImageStore.Save.Rename", "", err.Error())
	}
	return ReferencePrefix + filename, nil
}

func (imageStore *ImageStore) nextSequence(listingId string) (int, error) {
	imageStore.mu.Lock()
	defer imageStore.mu.Unlock()
	if current, ok := imageStore.sequences[listingId]; ok {
		imageStore.sequences[listingId] = current + 1
		return current + 1, nil
	}
	highest, err := imageStore.highestSequenceOnDisk(listingId)
	if err != nil {
		return 0, err
	}
	imageStore.sequences[listingId] = highest + 1
	return highest + 1, nil
}

func (imageStore *ImageStore) highestSequenceOnDisk(listingId string) (int, error) {
	entries, err := os.ReadDir(imageStore.dir)
	if err != nil {
		return 0, customerror.NewError(customerror.ErrStorage, "ImageStore.highestSequenceOnDisk", "", err.Error())
	}
	prefix := listingId + "-"
	highest := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		suffix := strings.TrimPrefix(entry.Name(), prefix)
		suffix = strings.TrimSuffix(suffix, filepath.Ext(suffix))
		sequence, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if sequence > highest {
			highest = sequence
		}
	}
	return highest, nil
}

// Load resolves a reference to bytes and a content type. A missing or
// unreadable file degrades to the placeholder image instead of failing.
func (imageStore *ImageStore) Load(reference string) ([]byte, string, error) {
	filename := filepath.Base(strings.TrimPrefix(reference, ReferencePrefix))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return imageStore.placeholder()
	}
	content, err := os.ReadFile(filepath.Join(imageStore.dir, filename))
	if err != nil {
		return imageStore.placeholder()
	}
	return content, contentTypeFor(filename), nil
}

func (imageStore *ImageStore) placeholder() ([]byte, string, error) {
	content, err := os.ReadFile(imageStore.placeholderPath)
	if err != nil {
		return nil, "", customerror.NewError(customerror.ErrStorage, "ImageStore.placeholder", "", err.Error())
	}
	return content, "image/jpeg", nil
}

func (imageStore *ImageStore) Remove(reference string) error {
	filename := filepath.Base(strings.TrimPrefix(reference, ReferencePrefix))
	err := os.Remove(filepath.Join(imageStore.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return customerror.NewError(customerror.ErrStorage, "ImageStore.Remove", "", err.Error())
	}
	return nil
}

func contentTypeFor(filename string) string {
	if contentType, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
