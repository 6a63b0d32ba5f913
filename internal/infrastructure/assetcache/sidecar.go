package assetcache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"

	"github.com/nflverse/nflassets/internal/domain/asset"
)

// Payloads live at {root}/{kind}/{slug} with a {slug}.json sidecar next to
// them recording provenance, freshness, and the expected checksum.
const sidecarSuffix = ".json"

func payloadPath(root string, key asset.Key) string {
	return filepath.Join(root, string(key.Kind), key.Slug)
}

func sidecarPath(root string, key asset.Key) string {
	return payloadPath(root, key) + sidecarSuffix
}

func readSidecar(root string, key asset.Key) (asset.Entry, error) {
	raw, err := os.ReadFile(sidecarPath(root, key))
	if err != nil {
		return asset.Entry{}, err
	}

	var entry asset.Entry
	if err := sonic.Unmarshal(raw, &entry); err != nil {
		return asset.Entry{}, fmt.Errorf("decode sidecar %s: %w", key, err)
	}
	entry.Key = key
	if err := entry.Validate(); err != nil {
		return asset.Entry{}, fmt.Errorf("sidecar %s: %w", key, err)
	}
	return entry, nil
}

func writeSidecar(root string, key asset.Key, entry asset.Entry) error {
	raw, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode sidecar %s: %w", key, err)
	}
	return writeFileAtomic(sidecarPath(root, key), raw)
}

func writePayload(root string, key asset.Key, body []byte) error {
	return writeFileAtomic(payloadPath(root, key), body)
}

func removeEntryFiles(root string, key asset.Key) {
	_ = os.Remove(payloadPath(root, key))
	_ = os.Remove(sidecarPath(root, key))
}

// verifyPayload confirms the payload on disk still matches what the sidecar
// recorded at download time.
func verifyPayload(path string, entry asset.Entry) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() != entry.Size {
		return fmt.Errorf("payload size %d does not match recorded %d", info.Size(), entry.Size)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	verifier := entry.Checksum.Verifier()
	if _, err := io.Copy(verifier, file); err != nil {
		return fmt.Errorf("hash payload: %w", err)
	}
	if !verifier.Verified() {
		return fmt.Errorf("payload checksum does not match %s", entry.Checksum)
	}
	return nil
}

// writeFileAtomic stages content in a temp file and renames it into place so
// readers never observe a half-written payload.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", path, err)
	}
	return nil
}
