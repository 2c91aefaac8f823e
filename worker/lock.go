package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"timeboss-backend/models"
)

// LockManager is a file lock shared by every instance that can see LockFilePath
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
	now          func() time.Time
}

// ErrLockHeld is returned when another owner holds an unexpired lock
type ErrLockHeld struct {
	Owner     string
	ExpiresAt time.Time
}

func (e *ErrLockHeld) Error() string {
	return fmt.Sprintf("lock held by %s until %s", e.Owner, e.ExpiresAt.Format(time.RFC3339))
}

// NewLockManager creates a new lock manager
func NewLockManager(lockPath string, timeout time.Duration, env string) *LockManager {
	return &LockManager{
		LockFilePath: lockPath,
		LockTimeout:  timeout,
		Environment:  env,
		now:          time.Now,
	}
}

// AcquireLock takes the lock for ownerID. A lock the same owner already holds is extended.
// New lock files are created exclusively, so of two instances racing for a free or expired
// lock only one wins.
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	if err := os.MkdirAll(filepath.Dir(lm.LockFilePath), 0755); err != nil {
		return nil, err
	}

	lockInfo, err := lm.createLock(ownerID)
	if err == nil {
		return lockInfo, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	existingLock, err := lm.currentLock()
	if err != nil {
		return nil, err
	}
	if lm.now().Before(existingLock.ExpiresAt) {
		if existingLock.Owner == ownerID && existingLock.Environment == lm.Environment {
			return lm.extendLock(existingLock, ownerID)
		}
		return nil, &ErrLockHeld{Owner: existingLock.Owner, ExpiresAt: existingLock.ExpiresAt}
	}

	if err := lm.removeExpired(); err != nil {
		return nil, err
	}
	lockInfo, err = lm.createLock(ownerID)
	if os.IsExist(err) {
		if held, readErr := lm.currentLock(); readErr == nil {
			return nil, &ErrLockHeld{Owner: held.Owner, ExpiresAt: held.ExpiresAt}
		}
		return nil, &ErrLockHeld{Owner: "unknown", ExpiresAt: lm.now().Add(lm.LockTimeout)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return lockInfo, nil
}

// createLock writes a new lock file, failing with an os.IsExist error when one is present
func (lm *LockManager) createLock(ownerID string) (*models.LockInfo, error) {
	now := lm.now()
	lockInfo := &models.LockInfo{
		ID:          fmt.Sprintf("digest-lock-%d", now.UnixNano()),
		Owner:       ownerID,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(lm.LockTimeout),
		Environment: lm.Environment,
	}
	data, err := json.MarshalIndent(lockInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize lock info: %w", err)
	}

	f, err := os.OpenFile(lm.LockFilePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(lm.LockFilePath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(lm.LockFilePath)
		return nil, err
	}
	return lockInfo, nil
}

// currentLock reads the lock file. A file still being written by its creator reads as held.
func (lm *LockManager) currentLock() (*models.LockInfo, error) {
	lockInfo, err := lm.readLockFile()
	if err == nil {
		return lockInfo, nil
	}
	if os.IsNotExist(err) {
		return nil, &ErrLockHeld{Owner: "unknown", ExpiresAt: lm.now().Add(lm.LockTimeout)}
	}
	stat, statErr := os.Stat(lm.LockFilePath)
	if statErr != nil {
		return nil, err
	}
	// unreadable locks expire like any other, counted from the last write
	return &models.LockInfo{Owner: "unknown", ExpiresAt: stat.ModTime().Add(lm.LockTimeout)}, nil
}

// removeExpired deletes the lock file if it is still expired. Removal happens under an
// exclusive guard file and after a fresh read, so a lock created in the meantime survives.
// It reports ErrLockHeld when another instance is already clearing the lock.
func (lm *LockManager) removeExpired() error {
	guard := lm.LockFilePath + ".guard"
	f, err := os.OpenFile(guard, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if os.IsExist(err) && lm.clearStaleGuard(guard) {
		f, err = os.OpenFile(guard, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	}
	if os.IsExist(err) {
		return &ErrLockHeld{Owner: "unknown", ExpiresAt: lm.now().Add(lm.LockTimeout)}
	}
	if err != nil {
		return fmt.Errorf("failed to create lock guard: %w", err)
	}
	f.Close()
	defer os.Remove(guard)

	current, err := lm.readLockFile()
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		if current, err = lm.currentLock(); err != nil {
			return err
		}
	}
	if lm.now().Before(current.ExpiresAt) {
		return &ErrLockHeld{Owner: current.Owner, ExpiresAt: current.ExpiresAt}
	}
	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove expired lock: %w", err)
	}
	return nil
}

// clearStaleGuard drops a guard left behind by a crashed instance
func (lm *LockManager) clearStaleGuard(guard string) bool {
	stat, err := os.Stat(guard)
	if err != nil || time.Since(stat.ModTime()) < lm.LockTimeout {
		return false
	}
	return os.Remove(guard) == nil
}

func (lm *LockManager) readLockFile() (*models.LockInfo, error) {
	return readLock(lm.LockFilePath)
}

func readLock(path string) (*models.LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lockInfo models.LockInfo
	if err := json.Unmarshal(data, &lockInfo); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}

	return &lockInfo, nil
}

func (lm *LockManager) extendLock(existingLock *models.LockInfo, ownerID string) (*models.LockInfo, error) {
	if existingLock.Owner != ownerID {
		return nil, fmt.Errorf("cannot extend lock owned by %s", existingLock.Owner)
	}

	extendedLock := *existingLock
	extendedLock.ExpiresAt = lm.now().Add(lm.LockTimeout)

	if err := lm.writeLockFile(&extendedLock); err != nil {
		return nil, fmt.Errorf("failed to extend lock: %w", err)
	}
	return &extendedLock, nil
}

func (lm *LockManager) writeLockFile(lockInfo *models.LockInfo) error {
	data, err := json.MarshalIndent(lockInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}
	return writeAtomic(lm.LockFilePath, data)
}

// CleanupExpiredLocks removes an expired lock file
func (lm *LockManager) CleanupExpiredLocks() error {
	lockInfo, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !lm.now().After(lockInfo.ExpiresAt) {
		return nil
	}

	var held *ErrLockHeld
	if err := lm.removeExpired(); err != nil && !errors.As(err, &held) {
		return err
	}
	return nil
}

// ReleaseLock releases a lock acquired by AcquireLock
func (lm *LockManager) ReleaseLock(lockInfo *models.LockInfo) error {
	currentLock, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if currentLock.Owner != lockInfo.Owner {
		return fmt.Errorf("cannot release lock owned by %s", currentLock.Owner)
	}

	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	return nil
}

// writeAtomic writes through a temp file and rename so readers never see a partial file
func writeAtomic(path string, data []byte) error {
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
