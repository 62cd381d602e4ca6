package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/backup"
	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/internal/storage/savefile"
	"github.com/yndnr/stellar-save/internal/telemetry/logger"
	"github.com/yndnr/stellar-save/internal/telemetry/metric"
)

// Config holds the engine settings.
type Config struct {
	// Dir is the save profile directory.
	Dir string

	// BackupCount is the number of backups kept per slot. Zero disables
	// rotation and backup fallback.
	BackupCount int

	// FileChecksum appends a whole-file digest to every save.
	FileChecksum bool

	// Features enables the optional Assets and Collections chunks.
	Features savefile.Features

	// Compression must be chunk.CompressionNone.
	Compression chunk.Compression
}

// SaveSystem saves and loads snapshots by slot.
type SaveSystem struct {
	cfg     Config
	fs      fsys.FS
	reader  *savefile.Reader
	metrics *metric.Registry
	now     func() time.Time

	mu      sync.Mutex
	current string
}

// NewSaveSystem creates a SaveSystem. The configuration must already be
// verified.
func NewSaveSystem(cfg Config, opts ...Option) *SaveSystem {
	s := &SaveSystem{
		cfg: cfg,
		fs:  fsys.OS{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.BackupCount < 0 {
		s.cfg.BackupCount = 0
	}
	s.reader = savefile.NewReader(s.fs)
	return s
}

// Dir returns the save directory.
func (s *SaveSystem) Dir() string { return s.cfg.Dir }

// CurrentSlot returns the slot of the last successful save or load, or
// the quicksave slot before any.
func (s *SaveSystem) CurrentSlot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return domain.QuickSaveSlot
	}
	return s.current
}

func (s *SaveSystem) setCurrent(slot string) {
	s.mu.Lock()
	s.current = slot
	s.mu.Unlock()
}

func (s *SaveSystem) files(slot string) backup.Files { return backup.For(s.cfg.Dir, slot) }

// rotator returns a rotator that logs and counts its steps.
func (s *SaveSystem) rotator(log logger.Logger) *backup.Rotator {
	r := backup.NewRotator(s.fs, s.cfg.BackupCount)
	r.OnStep = func(op, from, to string) {
		log.Debug("backup rotation", "op", op, "from", from, "to", to)
		s.metrics.RotationStep(op)
	}
	return r
}

// begin returns a logger tagged with a fresh operation ID and slot.
func (s *SaveSystem) begin(ctx context.Context, slot string) logger.Logger {
	return logger.L(logger.WithSlot(logger.StartOperation(ctx), slot))
}

// ============================================================================
// Save
// ============================================================================

// Save writes snap to slot, rotating the previous save into the backups.
// It returns the metadata stored with the save.
func (s *SaveSystem) Save(ctx context.Context, slot string, snap *domain.SimulationSnapshot, opts ...SaveOption) (*domain.SaveMetadata, error) {
	start := s.now()
	md, err := s.save(ctx, slot, snap, opts)
	size := 0
	if md != nil {
		size = int(md.Size)
	}
	s.metrics.ObserveSave(err, size, s.now().Sub(start))
	return md, err
}

func (s *SaveSystem) save(ctx context.Context, slot string, snap *domain.SimulationSnapshot, opts []SaveOption) (*domain.SaveMetadata, error) {
	// 1. Validate before any I/O
	if err := domain.ValidateSlotName(slot); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrSnapshotInvalid.WithDetails("snapshot is nil")
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	log := s.begin(ctx, slot)
	start := s.now()
	log.Debug("save started", logger.Tick(snap.Tick))

	// 2. Work on a copy so the caller's snapshot is never modified
	work := *snap
	work.Planets = slices.Clone(snap.Planets)
	work.Normalize()

	// 3. Derive metadata
	now := s.now()
	md := domain.DeriveMetadata(slot, &work, now)
	id, err := domain.NewSaveID(now)
	if err != nil {
		return nil, domain.ErrIO.WithDetails("generate save id").WithCause(err)
	}
	md.SaveID = id
	for _, opt := range opts {
		opt(&md)
	}

	// 4. Rotate, build, write to temp, rename
	w := savefile.NewWriter(s.fs, s.rotator(log), savefile.Options{
		Compression:  s.cfg.Compression,
		FileChecksum: s.cfg.FileChecksum,
		Features:     s.cfg.Features,
	})
	img, err := w.Write(s.files(slot), &work, md, now)
	if err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	md.FormatVersion = img.Header.FormatVersion
	md.Size = int64(len(img.Data))
	s.setCurrent(slot)

	log.Info("save finished",
		logger.SaveID(md.SaveID),
		logger.Player(md.PlayerID),
		logger.Tick(md.Tick),
		logger.Bytes(md.Size),
		"chunks", len(img.Chunks),
		logger.Took(s.now().Sub(start)),
	)
	return &md, nil
}

// SaveQuick saves snap to the quicksave slot.
func (s *SaveSystem) SaveQuick(ctx context.Context, snap *domain.SimulationSnapshot, opts ...SaveOption) (*domain.SaveMetadata, error) {
	return s.Save(ctx, domain.QuickSaveSlot, snap, opts...)
}

// ============================================================================
// Load
// ============================================================================

// LoadResult is a loaded snapshot and where it came from.
type LoadResult struct {
	Snapshot *domain.SimulationSnapshot
	Metadata domain.SaveMetadata
	Source   Source
	Path     string

	// Attempts lists the files that failed before Source answered.
	Attempts []Attempt
}

// Load restores the snapshot saved in slot.
func (s *SaveSystem) Load(ctx context.Context, slot string) (*domain.SimulationSnapshot, error) {
	res, err := s.LoadDetailed(ctx, slot)
	if err != nil {
		return nil, err
	}
	return res.Snapshot, nil
}

// LoadQuick restores the quicksave slot.
func (s *SaveSystem) LoadQuick(ctx context.Context) (*domain.SimulationSnapshot, error) {
	return s.Load(ctx, domain.QuickSaveSlot)
}

// LoadDetailed restores slot, trying the primary save and then each backup
// from newest to oldest. Files that are missing or fail to decode are
// skipped; if none succeeds the returned *LoadError lists every attempt.
func (s *SaveSystem) LoadDetailed(ctx context.Context, slot string) (*LoadResult, error) {
	if err := domain.ValidateSlotName(slot); err != nil {
		return nil, err
	}

	log := s.begin(ctx, slot)
	start := s.now()

	var attempts []Attempt
	for i, path := range s.rotator(log).Candidates(s.files(slot)) {
		src := Source(i)
		res, err := s.reader.Read(path)
		if err != nil {
			attempts = append(attempts, Attempt{Source: src, Path: path, Err: err})
			if !errors.Is(err, domain.ErrSaveNotFound) {
				log.Warn("load candidate failed", logger.Source(src.String()), logger.Path(path), logger.Err(err))
				s.metrics.CandidateFailed(domain.GetErrorCode(err))
			}
			if !domain.IsRecoverable(err) {
				break
			}
			continue
		}

		if src.IsBackup() {
			log.Warn("loaded from backup", logger.Source(src.String()), logger.Path(path), "failed", len(attempts))
			s.metrics.Fallback()
		}
		if res.Metadata.Degraded {
			log.Warn("legacy save loaded with reduced detail", logger.Path(path))
		}
		s.metrics.ObserveLoad(sourceLabel(src), nil, s.now().Sub(start))
		s.setCurrent(slot)
		log.Info("load finished", logger.Source(src.String()), logger.SaveID(res.Metadata.SaveID), logger.Tick(res.Snapshot.Tick))

		return &LoadResult{
			Snapshot: res.Snapshot,
			Metadata: res.Metadata,
			Source:   src,
			Path:     path,
			Attempts: attempts,
		}, nil
	}

	err := &LoadError{Slot: slot, Attempts: attempts}
	s.metrics.ObserveLoad("none", err, s.now().Sub(start))
	if err.NotFound() {
		log.Info("no save for slot")
	} else {
		log.Error("load failed", "attempts", len(attempts), logger.Err(err))
	}
	return nil, err
}

func sourceLabel(src Source) string {
	if src.IsBackup() {
		return "backup"
	}
	return "primary"
}

// ============================================================================
// Summaries
// ============================================================================

// GetSaveInfo returns the metadata of slot, read through the same fallback
// chain as Load. It returns nil when no file of the slot is readable.
func (s *SaveSystem) GetSaveInfo(ctx context.Context, slot string) *domain.SaveMetadata {
	if domain.ValidateSlotName(slot) != nil {
		return nil
	}
	log := s.begin(ctx, slot)

	for i, path := range s.rotator(log).Candidates(s.files(slot)) {
		md, err := s.reader.ReadMetadata(path)
		if err != nil {
			if !errors.Is(err, domain.ErrSaveNotFound) {
				log.Debug("metadata candidate failed", logger.Source(Source(i).String()), logger.Err(err))
			}
			continue
		}
		md.Slot = slot
		return &md
	}
	return nil
}

// ListSaves describes every slot in the save directory, newest first.
// Slots with no readable file are skipped.
func (s *SaveSystem) ListSaves(ctx context.Context) ([]domain.SaveMetadata, error) {
	slots, err := s.slots()
	if err != nil {
		return nil, err
	}

	out := make([]domain.SaveMetadata, 0, len(slots))
	for _, slot := range slots {
		if md := s.GetSaveInfo(ctx, slot); md != nil {
			out = append(out, *md)
		} else {
			logger.L(ctx).Warn("skipping unreadable save", "slot", slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

// slots returns the valid slot names that have a save or a backup.
func (s *SaveSystem) slots() ([]string, error) {
	entries, err := s.fs.ReadDir(s.cfg.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrDirectory.WithDetails(s.cfg.Dir).WithCause(err)
	}

	seen := make(map[string]bool)
	var slots []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slot, kind, _ := backup.Parse(e.Name())
		if kind != backup.KindSave && kind != backup.KindBackup {
			continue
		}
		if seen[slot] || domain.ValidateSlotName(slot) != nil {
			continue
		}
		seen[slot] = true
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots, nil
}

// Exists reports whether slot has a primary save file.
func (s *SaveSystem) Exists(slot string) (bool, error) {
	if err := domain.ValidateSlotName(slot); err != nil {
		return false, err
	}
	ok, err := fsys.Exists(s.fs, s.files(slot).Primary())
	if err != nil {
		return false, domain.ErrIO.WithCause(err)
	}
	return ok, nil
}

// ============================================================================
// Maintenance
// ============================================================================

// Delete removes the save, its backups and any leftover temporary files.
func (s *SaveSystem) Delete(ctx context.Context, slot string) error {
	if err := domain.ValidateSlotName(slot); err != nil {
		return err
	}
	log := s.begin(ctx, slot)
	f := s.files(slot)

	rot := s.rotator(log)
	paths := []string{f.Primary(), f.Temp()}
	backups, err := rot.List(f)
	if err != nil {
		return domain.ErrIO.WithCause(err)
	}
	leftovers, err := rot.Leftovers(f)
	if err != nil {
		return domain.ErrIO.WithCause(err)
	}
	for _, b := range append(backups, leftovers...) {
		paths = append(paths, b.Path)
	}

	removed := 0
	for _, p := range paths {
		ok, err := fsys.Exists(s.fs, p)
		if err != nil {
			return domain.ErrIO.WithDetails(p).WithCause(err)
		}
		if !ok {
			continue
		}
		if err := s.fs.Remove(p); err != nil {
			return domain.ErrIO.WithDetails(p).WithCause(err)
		}
		removed++
	}
	if removed == 0 {
		return domain.ErrSaveNotFound.WithDetails(slot)
	}
	if s.CurrentSlot() == slot {
		s.setCurrent("")
	}
	log.Info("save deleted", "files", removed)
	return nil
}

// CandidateStatus is the verification result of one file of a slot.
type CandidateStatus struct {
	Source   Source
	Path     string
	Exists   bool
	Err      error
	Metadata *domain.SaveMetadata
}

// OK reports whether the file decoded cleanly.
func (c CandidateStatus) OK() bool { return c.Exists && c.Err == nil }

// Verify fully decodes every file of slot and reports each result.
func (s *SaveSystem) Verify(ctx context.Context, slot string) ([]CandidateStatus, error) {
	if err := domain.ValidateSlotName(slot); err != nil {
		return nil, err
	}
	log := s.begin(ctx, slot)

	var out []CandidateStatus
	for i, path := range s.rotator(log).Candidates(s.files(slot)) {
		st := CandidateStatus{Source: Source(i), Path: path, Exists: true}
		res, err := s.reader.Read(path)
		switch {
		case errors.Is(err, domain.ErrSaveNotFound):
			st.Exists = false
		case err != nil:
			st.Err = err
		default:
			st.Metadata = &res.Metadata
		}
		out = append(out, st)
	}
	return out, nil
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Index    int
	Path     string
	Size     int64
	Metadata *domain.SaveMetadata
	Err      error
}

// Backups lists the backups of slot, newest first.
func (s *SaveSystem) Backups(ctx context.Context, slot string) ([]BackupInfo, error) {
	if err := domain.ValidateSlotName(slot); err != nil {
		return nil, err
	}
	log := s.begin(ctx, slot)

	entries, err := s.rotator(log).List(s.files(slot))
	if err != nil {
		return nil, domain.ErrIO.WithCause(err)
	}
	out := make([]BackupInfo, 0, len(entries))
	for _, e := range entries {
		info := BackupInfo{Index: e.Index, Path: e.Path, Size: e.Size}
		md, err := s.reader.ReadMetadata(e.Path)
		if err != nil {
			info.Err = err
		} else {
			info.Metadata = &md
		}
		out = append(out, info)
	}
	return out, nil
}

// RestoreBackup makes backup index the primary save of slot. The current
// primary is rotated into the backups first, so nothing is lost.
func (s *SaveSystem) RestoreBackup(ctx context.Context, slot string, index int) (*domain.SaveMetadata, error) {
	if err := domain.ValidateSlotName(slot); err != nil {
		return nil, err
	}
	log := s.begin(ctx, slot)
	f := s.files(slot)

	if index < 1 {
		return nil, domain.ErrBackupNotFound.WithDetails(fmt.Sprintf("index %d", index))
	}
	path := f.Backup(index)
	data, err := s.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrBackupNotFound.WithDetails(path)
	}
	if err != nil {
		return nil, domain.ErrIO.WithDetails(path).WithCause(err)
	}

	// Only a backup that decodes is worth restoring.
	res, err := savefile.Decode(data)
	if err != nil {
		return nil, err
	}

	if err := s.rotator(log).Rotate(f); err != nil {
		return nil, domain.ErrIO.WithDetails("rotate backups").WithCause(err)
	}
	if err := fsys.WriteAtomic(s.fs, f.Temp(), f.Primary(), data); err != nil {
		return nil, domain.ErrIO.WithDetails(f.Primary()).WithCause(err)
	}
	fsys.SyncDir(s.fs, f.Dir)

	log.Info("backup restored", "index", index, logger.Tick(res.Snapshot.Tick))
	md := res.Metadata
	md.Slot = slot
	return &md, nil
}
