package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"site-energy-sim/internal/model"
)

// Site is loaded site data plus a digest of the file it came from, used to
// namespace cached results.
type Site struct {
	Data   *model.SiteData
	Digest string
}

// LoadSiteJSON reads and validates a site data file. Malformed JSON is a
// configuration error; well formed data that breaks an invariant is a
// validation error.
func LoadSiteJSON(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigError{Source: path, Err: err}
	}
	return ParseSiteJSON(raw)
}

func ParseSiteJSON(raw []byte) (*Site, error) {
	var s model.SiteData
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &model.ConfigError{Source: "site", Err: err}
	}
	site, err := model.NewSiteData(s)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return &Site{Data: site, Digest: hex.EncodeToString(sum[:])}, nil
}
