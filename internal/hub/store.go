// Package hub implements the canonical local skill repository.
//
// A hub root holds the skill content under skills/<id>/ and one install
// record per installed skill under metadata/<id>.json. The install records
// are the "installed" index; a directory under skills/ without a record is
// physically present but not installed.
package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// ErrNotInstalled is returned when a skill has no install record.
var ErrNotInstalled = errors.New("skill not installed")

const (
	skillsDirName   = "skills"
	metadataDirName = "metadata"
)

// Store is a hub rooted at a local directory.
type Store struct {
	root    string
	records map[string]*model.InstallRecord
	now     func() time.Time
}

// New opens the hub at root, creating its layout if needed, and loads every
// install record. Records that cannot be read are logged and skipped.
func New(root string) (*Store, error) {
	s := &Store{
		root:    filepath.Clean(root),
		records: make(map[string]*model.InstallRecord),
		now:     time.Now,
	}
	for _, dir := range []string{s.SkillsDir(), s.metadataDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create hub directory %q: %w", dir, err)
		}
	}
	if err := s.loadRecords(); err != nil {
		return nil, err
	}
	logging.Debug("opened hub", logging.Path(s.root), logging.Count(len(s.records)))
	return s, nil
}

// Root returns the hub root directory.
func (s *Store) Root() string { return s.root }

// SkillsDir returns the directory holding skill content.
func (s *Store) SkillsDir() string { return filepath.Join(s.root, skillsDirName) }

// SkillPath returns the canonical path of a skill.
func (s *Store) SkillPath(id string) string { return filepath.Join(s.SkillsDir(), id) }

// IsInstalled reports whether an install record exists for id.
func (s *Store) IsInstalled(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Record returns the install record for id.
func (s *Store) Record(id string) (*model.InstallRecord, bool) {
	r, ok := s.records[id]
	return r, ok
}

// ListInstalled returns every install record sorted by skill id.
func (s *Store) ListInstalled() []*model.InstallRecord {
	out := make([]*model.InstallRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out
}

// SkillIDs lists the skill directories physically present in the hub,
// sorted, skipping dot-prefixed names. Collected skills without a record
// are included.
func (s *Store) SkillIDs() ([]string, error) {
	ids, err := fsutil.SkillDirs(s.SkillsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read hub skills: %w", err)
	}
	return ids, nil
}

// HasSkill reports whether a skill directory is physically present.
func (s *Store) HasSkill(id string) bool {
	return fsutil.Exists(s.SkillPath(id))
}

// CurrentVersion returns the recorded version of id with the content hash
// recomputed from disk, so edits made in the hub are visible.
func (s *Store) CurrentVersion(id string) (model.SkillVersion, error) {
	r, ok := s.records[id]
	if !ok {
		return model.SkillVersion{}, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	hash, err := ComputeHash(s.SkillPath(id))
	if err != nil {
		return model.SkillVersion{}, err
	}
	v := r.Version
	v.ContentHash = hash
	return v, nil
}

// Import copies srcDir into the hub as id and writes its install record.
// An existing skill with the same id is replaced.
func (s *Store) Import(id, srcDir, version string, source model.SkillSource) (*model.InstallRecord, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	dst := s.SkillPath(id)
	if err := fsutil.RemoveExisting(dst); err != nil {
		return nil, err
	}
	if err := fsutil.CopyDirStaged(srcDir, dst); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", id, err)
	}
	return s.register(id, version, source)
}

// RegisterLocal writes an install record for a skill directory that is
// already present in the hub, such as one collected from a tool.
func (s *Store) RegisterLocal(id, origin string) (*model.InstallRecord, error) {
	if !s.HasSkill(id) {
		return nil, fmt.Errorf("skill directory %q not present in hub", id)
	}
	return s.register(id, "local", model.SkillSource{Kind: model.SourceLocal, Location: origin})
}

func (s *Store) register(id, version string, source model.SkillSource) (*model.InstallRecord, error) {
	hash, err := ComputeHash(s.SkillPath(id))
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &model.InstallRecord{
		SkillID: id,
		Version: model.SkillVersion{
			Version:     version,
			ContentHash: hash,
			Timestamp:   &now,
		},
		InstalledAt:    now,
		Source:         source,
		ProjectedTools: []string{},
		ScanPassed:     true,
	}
	if err := s.saveRecord(r); err != nil {
		return nil, err
	}
	s.records[id] = r
	logging.Info("registered skill", logging.Skill(id), slog.String("source", source.Display()))
	return r, nil
}

// Remove deletes a skill's content and record. Missing pieces are ignored.
func (s *Store) Remove(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := fsutil.RemoveExisting(s.SkillPath(id)); err != nil {
		return err
	}
	if err := os.Remove(s.metadataPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record for %s: %w", id, err)
	}
	delete(s.records, id)
	return nil
}

// RecordProjection adds tool to the record's projected tools, keeping the
// list lowercase, unique and sorted. Skills without a record are ignored.
func (s *Store) RecordProjection(id string, tool model.Tool) error {
	r, ok := s.records[id]
	if !ok {
		return nil
	}
	name := strings.ToLower(tool.String())
	for _, t := range r.ProjectedTools {
		if t == name {
			return nil
		}
	}
	r.ProjectedTools = append(r.ProjectedTools, name)
	sort.Strings(r.ProjectedTools)
	return s.saveRecord(r)
}

func (s *Store) metadataDir() string { return filepath.Join(s.root, metadataDirName) }

func (s *Store) metadataPath(id string) string {
	return filepath.Join(s.metadataDir(), id+".json")
}

func (s *Store) saveRecord(r *model.InstallRecord) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", r.SkillID, err)
	}
	if err := os.WriteFile(s.metadataPath(r.SkillID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write record for %s: %w", r.SkillID, err)
	}
	return nil
}

func (s *Store) loadRecords() error {
	entries, err := os.ReadDir(s.metadataDir())
	if err != nil {
		return fmt.Errorf("failed to read hub metadata: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.metadataDir(), e.Name())
		// #nosec G304 - path is inside the hub metadata directory
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warn("skipping unreadable record", logging.Path(path), logging.Err(err))
			continue
		}
		var r model.InstallRecord
		if err := json.Unmarshal(data, &r); err != nil || r.SkillID == "" {
			logging.Warn("skipping malformed record", logging.Path(path), logging.Err(err))
			continue
		}
		if r.ProjectedTools == nil {
			r.ProjectedTools = []string{}
		}
		s.records[r.SkillID] = &r
	}
	return nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid skill id %q", id)
	}
	return nil
}
