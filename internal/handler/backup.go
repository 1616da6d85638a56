package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var backupNameRe = regexp.MustCompile(`^backup-(\d+)-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.bin$`)

// BackupHandler manages encrypted per-user snapshots of budgets and
// transactions. Ownership is encoded in the file name.
type BackupHandler struct {
	Store     store.Store
	Sealer    *util.Sealer
	BackupDir string
}

func NewBackupHandler(s store.Store, sealer *util.Sealer, backupDir string) *BackupHandler {
	return &BackupHandler{
		Store:     s,
		Sealer:    sealer,
		BackupDir: backupDir,
	}
}

// ownerTag is the associated data a backup is sealed with, so a file only
// opens for the user it was made for.
func ownerTag(uid int64) []byte {
	return []byte(strconv.FormatInt(uid, 10))
}

type backupData struct {
	UserID       int64                `json:"user_id"`
	Created      string               `json:"created"`
	Budgets      []models.Budget      `json:"budgets"`
	Transactions []models.Transaction `json:"transactions"`
}

type backupInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

func newBackupInfo(name string, fi fs.FileInfo) backupInfo {
	return backupInfo{
		Name:      name,
		Size:      fi.Size(),
		CreatedAt: models.Timestamp(fi.ModTime()),
	}
}

// ownedPath resolves :name to a file inside BackupDir, or reports false if
// the name is malformed or belongs to another user.
func (h *BackupHandler) ownedPath(c *gin.Context, uid int64) (string, bool) {
	name := c.Param("name")
	m := backupNameRe.FindStringSubmatch(name)
	if m == nil || m[1] != strconv.FormatInt(uid, 10) {
		return "", false
	}
	return filepath.Join(h.BackupDir, name), true
}

func (h *BackupHandler) CreateBackup(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	budgets, err := h.Store.ListBudgets(ctx, uid)
	if err != nil {
		serverError(c, "Failed to load budgets", err)
		return
	}
	txs, err := h.Store.ListTransactions(ctx, uid)
	if err != nil {
		serverError(c, "Failed to load transactions", err)
		return
	}

	raw, err := json.Marshal(backupData{
		UserID:       uid,
		Created:      models.Timestamp(time.Now()),
		Budgets:      budgets,
		Transactions: txs,
	})
	if err != nil {
		serverError(c, "Failed to encode backup", err)
		return
	}
	enc, err := h.Sealer.Seal(raw, ownerTag(uid))
	if err != nil {
		serverError(c, "Failed to encrypt backup", err)
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		serverError(c, "Failed to create backup directory", err)
		return
	}
	name := fmt.Sprintf("backup-%d-%s.bin", uid, uuid.NewString())
	path := filepath.Join(h.BackupDir, name)
	if err := os.WriteFile(path, enc, 0o600); err != nil {
		serverError(c, "Failed to write backup", err)
		return
	}
	fi, err := os.Stat(path)
	if err != nil {
		serverError(c, "Failed to write backup", err)
		return
	}

	util.JSON(c, http.StatusCreated, gin.H{"backup": newBackupInfo(name, fi)})
}

// ListBackups returns the caller's backups, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := os.ReadDir(h.BackupDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		serverError(c, "Failed to list backups", err)
		return
	}

	owner := strconv.FormatInt(uid, 10)
	items := make([]backupInfo, 0)
	for _, e := range entries {
		m := backupNameRe.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil || m[1] != owner {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		items = append(items, newBackupInfo(e.Name(), fi))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})

	util.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	path, ok := h.ownedPath(c, uid)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.FileAttachment(path, filepath.Base(path))
}

func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	path, ok := h.ownedPath(c, uid)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}

	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to delete backup", err)
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"success": true})
}

// RestoreBackup replaces the caller's budgets and transactions with the
// contents of the named backup.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	path, ok := h.ownedPath(c, uid)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}

	enc, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to read backup", err)
		return
	}

	raw, err := h.Sealer.Open(enc, ownerTag(uid))
	if err != nil {
		_ = c.Error(err)
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backup cannot be decrypted")
		return
	}
	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		_ = c.Error(err)
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backup is corrupt")
		return
	}
	if data.UserID != uid {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backup belongs to another user")
		return
	}

	if err := h.Store.RestoreUserData(c.Request.Context(), uid, data.Budgets, data.Transactions); err != nil {
		serverError(c, "Failed to restore backup", err)
		return
	}

	util.JSON(c, http.StatusOK, gin.H{
		"budgets_count":      len(data.Budgets),
		"transactions_count": len(data.Transactions),
	})
}
