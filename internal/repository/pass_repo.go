package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lodymel/heartpass/internal/model"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
)

const sqlDateLayout = "2006-01-02"

// PassFilter 列表筛选条件
// Status 为展示状态（含 expired），在 SQL 中按 Today 推导
type PassFilter struct {
	Status string
	Today  time.Time
	Offset int
	Limit  int // <= 0 表示不分页
}

// PassRepository 卡券数据访问接口
type PassRepository interface {
	Create(ctx context.Context, pass *model.Pass) error
	GetByID(ctx context.Context, id string) (*model.Pass, error)
	// Update 乐观锁更新，version 不匹配时返回 ErrOptimisticLock
	Update(ctx context.Context, pass *model.Pass) error
	// Delete 物理删除，仅用于从未发出的卡券
	Delete(ctx context.Context, id string, version int) error
	ListByOwner(ctx context.Context, ownerID string, f PassFilter) ([]model.Pass, int64, error)
	// ListReceived recipient_user_id = 我 OR recipient_email = 我的邮箱
	ListReceived(ctx context.Context, userID, email string, f PassFilter) ([]model.Pass, int64, error)
	ListPendingForRecipient(ctx context.Context, userID, email string, today time.Time, limit int) ([]model.Pass, error)
}

type passRepo struct {
	db *gorm.DB
}

// NewPassRepo 创建 PassRepository 实例
func NewPassRepo(db *gorm.DB) PassRepository {
	return &passRepo{db: db}
}

// ────────────────────── Create / Get ──────────────────────

func (r *passRepo) Create(ctx context.Context, pass *model.Pass) error {
	return r.db.WithContext(ctx).Create(pass).Error
}

func (r *passRepo) GetByID(ctx context.Context, id string) (*model.Pass, error) {
	var pass model.Pass
	err := r.db.WithContext(ctx).
		Where("pass_id = ?", id).
		First(&pass).Error
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (r *passRepo) Update(ctx context.Context, pass *model.Pass) error {
	oldVersion := pass.Version
	result := r.db.WithContext(ctx).
		Model(&model.Pass{}).
		Where("pass_id = ? AND version = ?", pass.PassID, oldVersion).
		Updates(map[string]interface{}{
			"sender_name":       pass.SenderName,
			"recipient_name":    pass.RecipientName,
			"sender_email":      pass.SenderEmail,
			"recipient_email":   pass.RecipientEmail,
			"recipient_user_id": pass.RecipientUserID,
			"recipient_type":    pass.RecipientType,
			"gift_type":         pass.GiftType,
			"mood":              pass.Mood,
			"message":           pass.Message,
			"usage_condition":   pass.UsageCondition,
			"validity_type":     pass.ValidityType,
			"validity_date":     pass.ValidityDate,
			"status":            pass.Status,
			"used_at":           pass.UsedAt,
			"sent_at":           pass.SentAt,
			"owner_removed_at":  pass.OwnerRemovedAt,
			"updated_by":        pass.UpdatedBy,
			"updated_at":        time.Now(),
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	pass.Version = oldVersion + 1
	return nil
}

func (r *passRepo) Delete(ctx context.Context, id string, version int) error {
	result := r.db.WithContext(ctx).
		Where("pass_id = ? AND version = ?", id, version).
		Delete(&model.Pass{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// ────────────────────── 列表 ──────────────────────

func (r *passRepo) ListByOwner(ctx context.Context, ownerID string, f PassFilter) ([]model.Pass, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Pass{}).
		Where("owner_user_id = ? AND owner_removed_at IS NULL", ownerID)
	return r.list(applyStatusFilter(db, f), f)
}

func (r *passRepo) ListReceived(ctx context.Context, userID, email string, f PassFilter) ([]model.Pass, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Pass{}).
		Where("(recipient_user_id = ? OR recipient_email = ?)", userID, email)
	return r.list(applyStatusFilter(db, f), f)
}

func (r *passRepo) ListPendingForRecipient(ctx context.Context, userID, email string, today time.Time, limit int) ([]model.Pass, error) {
	var passes []model.Pass
	db := r.db.WithContext(ctx).
		Model(&model.Pass{}).
		Where("(recipient_user_id = ? OR recipient_email = ?)", userID, email)
	db = applyStatusFilter(db, PassFilter{Status: "pending", Today: today})
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Order("sent_at DESC NULLS LAST, created_at DESC").Find(&passes).Error
	return passes, err
}

func (r *passRepo) list(db *gorm.DB, f PassFilter) ([]model.Pass, int64, error) {
	var passes []model.Pass
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&passes).Error; err != nil {
		return nil, 0, err
	}
	return passes, total, nil
}

// applyStatusFilter 按展示状态筛选，expired 不落库，需结合 today 推导
func applyStatusFilter(db *gorm.DB, f PassFilter) *gorm.DB {
	today := f.Today.Format(sqlDateLayout)

	switch f.Status {
	case "", "all":
		return db
	case "expired":
		return db.Where("validity_type = 'date' AND validity_date < ? AND status NOT IN ('used', 'cancelled')", today)
	case "used", "cancelled":
		return db.Where("status = ?", f.Status)
	default:
		return db.Where("status = ? AND (validity_type <> 'date' OR validity_date >= ?)", f.Status, today)
	}
}
