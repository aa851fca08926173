package curseforge

import (
	"fmt"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
)

type ReleaseType int64

// noinspection GoUnusedConst
const (
	ReleaseTypeRelease ReleaseType = iota + 1
	ReleaseTypeBeta
	ReleaseTypeAlpha
)

type RelationType int64

// noinspection GoUnusedConst
const (
	RelationEmbeddedLibrary RelationType = iota + 1
	RelationOptionalDependency
	RelationRequiredDependency
	RelationTool
	RelationIncompatible
	RelationInclude
)

type HashAlgo int64

// noinspection GoUnusedConst
const (
	HashAlgoSHA1 HashAlgo = iota + 1
	HashAlgoMD5
)

type FileHash struct {
	Value string
	Algo  HashAlgo
}

type SortableGameVersion struct {
	GameVersionName        string
	GameVersionPadded      string
	GameVersion            string
	GameVersionReleaseDate string
	GameVersionTypeID      *int64
}

type FileDependency struct {
	ModID        int64
	RelationType RelationType
}

type FileModule struct {
	Name        string
	Fingerprint int64
}

// FileRecord is one entry of the files endpoint. Pointer fields are nil when the
// API omitted them or sent a value of the wrong type.
type FileRecord struct {
	ID             int64
	GameID         int64
	ModID          int64
	IsAvailable    bool
	DisplayName    string
	FileName       string
	ReleaseType    ReleaseType
	FileStatus     int64
	Hashes         []FileHash
	FileDate       string
	FileLength     int64
	DownloadCount  int64
	FileSizeOnDisk *int64
	// According to the CurseForge API T&Cs, this must not be saved or cached
	DownloadURL          *string
	GameVersions         []string
	SortableGameVersions []SortableGameVersion
	Dependencies         []FileDependency
	ExposeAsAlternative  *bool
	ParentProjectFileID  *int64
	AlternateFileID      *int64
	IsServerPack         *bool
	ServerPackFileID     *int64
	IsEarlyAccessContent *bool
	EarlyAccessEndDate   *string
	FileFingerprint      int64
	Modules              []FileModule
}

// BestHash picks SHA1 over MD5 when both are listed.
func (r FileRecord) BestHash() (hash string, algo HashAlgo, ok bool) {
	for _, h := range r.Hashes {
		if h.Algo == HashAlgoSHA1 {
			return h.Value, h.Algo, true
		}
		if h.Algo == HashAlgoMD5 && !ok {
			hash, algo, ok = h.Value, h.Algo, true
		}
	}
	return
}

type Pagination struct {
	Index       int64
	PageSize    int64
	ResultCount int64
	TotalCount  int64
}

// FileListing is a decoded files response. Pagination is nil when absent.
type FileListing struct {
	Files      []FileRecord
	Pagination *Pagination
}

// DecodeFileListing parses a files response. Only the envelope is checked
// strictly: the payload must be an object with a 'data' array. Individual
// fields never fail decoding and fall back to zero values.
func DecodeFileListing(payload []byte) (FileListing, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return FileListing{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return FileListing{}, errors.WithMessage(ErrMalformedEnvelope, "payload is not a JSON object")
	}
	raw, ok := obj["data"]
	if !ok {
		return FileListing{}, errors.WithMessage(ErrMalformedEnvelope, "payload is missing a 'data' array")
	}
	items, ok := raw.([]any)
	if !ok {
		return FileListing{}, errors.WithMessage(ErrMalformedEnvelope, "'data' is not an array")
	}

	listing := FileListing{Files: mapList(items, DecodeFileRecord)}
	if p, ok := obj["pagination"].(map[string]any); ok {
		listing.Pagination = &Pagination{
			Index:       toInt64(p["index"]),
			PageSize:    toInt64(p["pageSize"]),
			ResultCount: toInt64(p["resultCount"]),
			TotalCount:  toInt64(p["totalCount"]),
		}
	}
	return listing, nil
}

// DecodeFileRecord converts one element of the 'data' array.
func DecodeFileRecord(m map[string]any) FileRecord {
	return FileRecord{
		ID:          toInt64(m["id"]),
		GameID:      toInt64(m["gameId"]),
		ModID:       toInt64(m["modId"]),
		IsAvailable: toBool(m["isAvailable"]),
		DisplayName: toString(m["displayName"]),
		FileName:    toString(m["fileName"]),
		ReleaseType: ReleaseType(toInt64(m["releaseType"])),
		FileStatus:  toInt64(m["fileStatus"]),
		Hashes: mapList(toList(m["hashes"]), func(h map[string]any) FileHash {
			return FileHash{Value: toString(h["value"]), Algo: HashAlgo(toInt64(h["algo"]))}
		}),
		FileDate:       toString(m["fileDate"]),
		FileLength:     toInt64(m["fileLength"]),
		DownloadCount:  toInt64(m["downloadCount"]),
		FileSizeOnDisk: toOptionalInt64(m["fileSizeOnDisk"]),
		DownloadURL:    toOptionalString(m["downloadUrl"]),
		GameVersions:   toStringList(m["gameVersions"]),
		SortableGameVersions: mapList(toList(m["sortableGameVersions"]), func(g map[string]any) SortableGameVersion {
			return SortableGameVersion{
				GameVersionName:        toString(g["gameVersionName"]),
				GameVersionPadded:      toString(g["gameVersionPadded"]),
				GameVersion:            toString(g["gameVersion"]),
				GameVersionReleaseDate: toString(g["gameVersionReleaseDate"]),
				GameVersionTypeID:      toOptionalInt64(g["gameVersionTypeId"]),
			}
		}),
		Dependencies: mapList(toList(m["dependencies"]), func(d map[string]any) FileDependency {
			return FileDependency{ModID: toInt64(d["modId"]), RelationType: RelationType(toInt64(d["relationType"]))}
		}),
		ExposeAsAlternative:  toOptionalBool(m["exposeAsAlternative"]),
		ParentProjectFileID:  toOptionalInt64(m["parentProjectFileId"]),
		AlternateFileID:      toOptionalInt64(m["alternateFileId"]),
		IsServerPack:         toOptionalBool(m["isServerPack"]),
		ServerPackFileID:     toOptionalInt64(m["serverPackFileId"]),
		IsEarlyAccessContent: toOptionalBool(m["isEarlyAccessContent"]),
		EarlyAccessEndDate:   toOptionalString(m["earlyAccessEndDate"]),
		FileFingerprint:      toInt64(m["fileFingerprint"]),
		Modules: mapList(toList(m["modules"]), func(mod map[string]any) FileModule {
			return FileModule{Name: toString(mod["name"]), Fingerprint: toInt64(mod["fingerprint"])}
		}),
	}
}
