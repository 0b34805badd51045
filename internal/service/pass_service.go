package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/lifecycle"
	"github.com/lodymel/heartpass/internal/model"
	"github.com/lodymel/heartpass/internal/repository"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
)

// ── 卡券模块业务错误 ──

var (
	ErrPassNotFound     = errors.New("pass not found")
	ErrPassAccessDenied = errors.New("access denied")
	ErrPassCannotEdit   = errors.New("cannot edit this pass")
	ErrPassInvalidState = errors.New("this action is not available for the pass in its current status")
	ErrPassValidation   = errors.New("invalid pass data")
	ErrInvalidGiftType  = errors.New("unknown gift type")
)

// 下游失败时附带在响应里的提示
const (
	WarningEmailFailed   = "saved, but email failed"
	WarningEmailDisabled = "saved, but email notifications are disabled"
	WarningAIFallback    = "saved, but AI message generation failed; a template message was used"
)

const (
	defaultMood          = string(catalog.MoodCute)
	defaultRecipientType = "friend"
	notificationLimit    = 10
)

// PassService 卡券业务接口，actor 一律来自已校验的 Token
type PassService interface {
	// Create 创建卡券；带 recipient_email 时在同一事务内创建并发送
	Create(ctx context.Context, actor lifecycle.Actor, req *dto.CreatePassRequest) (*dto.PassMutationResult, error)
	Get(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error)
	ListSent(ctx context.Context, actor lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error)
	ListReceived(ctx context.Context, actor lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error)
	ReceivedSummary(ctx context.Context, actor lifecycle.Actor) (*dto.PassSummaryResponse, error)
	// Notifications 待接受的收件卡券（通知铃铛）
	Notifications(ctx context.Context, actor lifecycle.Actor) ([]dto.PassResponse, error)
	Update(ctx context.Context, actor lifecycle.Actor, id string, req *dto.UpdatePassRequest) (*dto.PassResponse, error)
	Send(ctx context.Context, actor lifecycle.Actor, id string, req *dto.SendPassRequest) (*dto.PassMutationResult, error)
	Accept(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error)
	Decline(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error)
	MarkUsed(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error)
	RegenerateMessage(ctx context.Context, actor lifecycle.Actor, id string, req *dto.RegenerateMessageRequest) (*dto.PassMutationResult, error)
	// Delete 未发出的卡券物理删除；已发出的只对 owner 隐藏
	Delete(ctx context.Context, actor lifecycle.Actor, id string) error
	// PublicView 邮件链接的匿名预览，只对已发出的卡券开放
	PublicView(ctx context.Context, id string) (*dto.PublicPassResponse, error)
}

type passService struct {
	repo      *repository.Repository
	generator MessageGenerator
	notifier  Notifier
	broker    events.Broker
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewPassService 创建 PassService 实例
func NewPassService(
	cfg *config.Config,
	repo *repository.Repository,
	generator MessageGenerator,
	notifier Notifier,
	broker events.Broker,
	logger *zap.Logger,
) PassService {
	return &passService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
		broker:    broker,
		loc:       cfg.App.Location(),
		now:       time.Now,
		logger:    logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *passService) Create(ctx context.Context, actor lifecycle.Actor, req *dto.CreatePassRequest) (*dto.PassMutationResult, error) {
	now := s.now()

	// 1. 目录校验与默认值
	if _, ok := catalog.LookupGift(req.GiftType); !ok {
		return nil, ErrInvalidGiftType
	}
	mood := req.Mood
	if mood == "" {
		mood = defaultMood
	}
	recipientType := req.RecipientType
	if recipientType == "" {
		recipientType = defaultRecipientType
	}
	if !catalog.IsValidRecipientType(recipientType) {
		return nil, fmt.Errorf("%w: unknown recipient_type %q", ErrPassValidation, recipientType)
	}
	validityDate, err := parseDate(req.ValidityDate)
	if err != nil {
		return nil, err
	}

	// 2. 未填写祝福语时生成
	var warnings []string
	message := strings.TrimSpace(req.Message)
	if message == "" {
		generated := s.generator.Generate(ctx, MessageRequest{
			GiftType:      req.GiftType,
			Mood:          mood,
			RecipientName: req.RecipientName,
			SenderName:    req.SenderName,
		})
		message = generated.Text
		if generated.Degraded {
			warnings = append(warnings, WarningAIFallback)
		}
	}

	pass, err := lifecycle.NewPass(lifecycle.Draft{
		SenderName:     req.SenderName,
		RecipientName:  req.RecipientName,
		SenderEmail:    req.SenderEmail,
		RecipientType:  recipientType,
		GiftType:       req.GiftType,
		Mood:           mood,
		Message:        message,
		UsageCondition: req.UsageCondition,
		ValidityType:   req.ValidityType,
		ValidityDate:   validityDate,
	}, actor, now, s.loc)
	if err != nil {
		return nil, validationError(err)
	}
	pass.CreatedBy = &actor.UserID
	pass.UpdatedBy = &actor.UserID

	sendNow := strings.TrimSpace(req.RecipientEmail) != ""
	send := lifecycle.Transition{
		Action:         lifecycle.ActionSend,
		Actor:          actor,
		RecipientEmail: req.RecipientEmail,
		Now:            now,
		Location:       s.loc,
	}
	// 收件邮箱在写入前校验
	if sendNow {
		if _, err := lifecycle.ApplyTransition(pass, send); err != nil {
			return nil, s.mapTransitionError(err, lifecycle.ActionSend)
		}
	}

	// 3. 事务：创建，可选地紧接着发送
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	if err := txRepo.Pass.Create(ctx, &pass); err != nil {
		rollback()
		s.logger.Error("创建卡券失败", zap.String("owner", actor.UserID), zap.Error(err))
		return nil, err
	}

	if sendNow {
		sent, err := lifecycle.ApplyTransition(pass, send)
		if err != nil {
			rollback()
			return nil, s.mapTransitionError(err, lifecycle.ActionSend)
		}
		if err := txRepo.Pass.Update(ctx, &sent); err != nil {
			rollback()
			s.logger.Error("发送卡券失败", zap.String("pass_id", pass.PassID), zap.Error(err))
			return nil, err
		}
		pass = sent
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	// 4. 提交后的副作用：事件、邮件
	s.publish(ctx, events.TypeCreated, &pass)
	if sendNow {
		s.publish(ctx, events.TypeSent, &pass)
		if w := s.deliverPass(ctx, &pass); w != "" {
			warnings = append(warnings, w)
		}
	}

	s.logger.Info("创建卡券",
		zap.String("pass_id", pass.PassID),
		zap.String("owner", actor.UserID),
		zap.Bool("sent", sendNow),
	)

	return &dto.PassMutationResult{
		Pass:    s.toResponse(&pass, actor, now),
		Warning: strings.Join(warnings, "; "),
	}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *passService) Get(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error) {
	pass, role, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if role == lifecycle.RoleOther {
		return nil, ErrPassAccessDenied
	}
	return s.toResponse(pass, actor, s.now()), nil
}

func (s *passService) ListSent(ctx context.Context, actor lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error) {
	now := s.now()
	passes, total, err := s.repo.Pass.ListByOwner(ctx, actor.UserID, s.filter(req, now))
	if err != nil {
		s.logger.Error("查询已发卡券失败", zap.String("owner", actor.UserID), zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(passes, actor, now), total, nil
}

func (s *passService) ListReceived(ctx context.Context, actor lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error) {
	now := s.now()
	passes, total, err := s.repo.Pass.ListReceived(ctx, actor.UserID, lifecycle.NormalizeEmail(actor.Email), s.filter(req, now))
	if err != nil {
		s.logger.Error("查询收到的卡券失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(passes, actor, now), total, nil
}

func (s *passService) ReceivedSummary(ctx context.Context, actor lifecycle.Actor) (*dto.PassSummaryResponse, error) {
	today := lifecycle.Today(s.now(), s.loc)
	passes, _, err := s.repo.Pass.ListReceived(ctx, actor.UserID, lifecycle.NormalizeEmail(actor.Email), repository.PassFilter{Today: today})
	if err != nil {
		s.logger.Error("统计收到的卡券失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	summary := &dto.PassSummaryResponse{All: len(passes)}
	for i := range passes {
		switch lifecycle.EffectiveStatus(&passes[i], today) {
		case lifecycle.StatusActive:
			summary.Active++
		case lifecycle.StatusPending:
			summary.Pending++
		case lifecycle.StatusAccepted:
			summary.Accepted++
		case lifecycle.StatusUsed:
			summary.Used++
		case lifecycle.StatusExpired:
			summary.Expired++
		case lifecycle.StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

func (s *passService) Notifications(ctx context.Context, actor lifecycle.Actor) ([]dto.PassResponse, error) {
	now := s.now()
	passes, err := s.repo.Pass.ListPendingForRecipient(ctx, actor.UserID, lifecycle.NormalizeEmail(actor.Email), lifecycle.Today(now, s.loc), notificationLimit)
	if err != nil {
		s.logger.Error("查询待接受卡券失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(passes, actor, now), nil
}

func (s *passService) PublicView(ctx context.Context, id string) (*dto.PublicPassResponse, error) {
	if !validPassID(id) {
		return nil, ErrPassNotFound
	}
	pass, err := s.repo.Pass.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPassNotFound
		}
		s.logger.Error("查询卡券失败", zap.String("pass_id", id), zap.Error(err))
		return nil, err
	}
	// 草稿不对外
	if !lifecycle.IsShared(pass) {
		return nil, ErrPassNotFound
	}

	today := lifecycle.Today(s.now(), s.loc)
	resp := &dto.PublicPassResponse{
		ID:              pass.PassID,
		SenderName:      pass.SenderName,
		RecipientName:   pass.RecipientName,
		GiftType:        pass.GiftType,
		Gift:            giftResponse(pass.GiftType),
		Mood:            pass.Mood,
		Message:         pass.Message,
		UsageCondition:  pass.UsageCondition,
		ValidityType:    pass.ValidityType,
		ValidityDate:    formatDate(pass.ValidityDate),
		IssueDate:       pass.IssueDate.Format(dto.DateLayout),
		EffectiveStatus: string(lifecycle.EffectiveStatus(pass, today)),
	}
	return resp, nil
}

// ────────────────────── 编辑 ──────────────────────

func (s *passService) Update(ctx context.Context, actor lifecycle.Actor, id string, req *dto.UpdatePassRequest) (*dto.PassResponse, error) {
	pass, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if pass.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	edit, err := toEdit(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next, err := lifecycle.ApplyEdit(*pass, edit, actor, now, s.loc)
	if err != nil {
		return nil, s.mapTransitionError(err, lifecycle.ActionEdit)
	}
	next.UpdatedBy = &actor.UserID

	if err := s.repo.Pass.Update(ctx, &next); err != nil {
		return nil, s.wrapWriteError(err, id)
	}

	s.publish(ctx, events.TypeUpdated, &next)
	return s.toResponse(&next, actor, now), nil
}

func (s *passService) RegenerateMessage(ctx context.Context, actor lifecycle.Actor, id string, req *dto.RegenerateMessageRequest) (*dto.PassMutationResult, error) {
	pass, role, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if pass.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	now := s.now()
	today := lifecycle.Today(now, s.loc)
	// 先判定可编辑，避免无谓的模型调用
	if !lifecycle.CanTransition(pass, role, lifecycle.ActionEdit, today) {
		return nil, s.mapTransitionError(&lifecycle.IllegalTransitionError{
			Action: lifecycle.ActionEdit,
			Role:   role,
			Status: lifecycle.EffectiveStatus(pass, today),
		}, lifecycle.ActionEdit)
	}

	generated := s.generator.Generate(ctx, MessageRequest{
		GiftType:      pass.GiftType,
		Mood:          pass.Mood,
		RecipientName: pass.RecipientName,
		SenderName:    pass.SenderName,
	})

	next, err := lifecycle.ApplyEdit(*pass, lifecycle.Edit{Message: &generated.Text}, actor, now, s.loc)
	if err != nil {
		return nil, s.mapTransitionError(err, lifecycle.ActionEdit)
	}
	next.UpdatedBy = &actor.UserID

	if err := s.repo.Pass.Update(ctx, &next); err != nil {
		return nil, s.wrapWriteError(err, id)
	}

	s.publish(ctx, events.TypeUpdated, &next)

	result := &dto.PassMutationResult{Pass: s.toResponse(&next, actor, now)}
	if generated.Degraded {
		result.Warning = WarningAIFallback
	}
	return result, nil
}

// ────────────────────── 状态迁移 ──────────────────────

func (s *passService) Send(ctx context.Context, actor lifecycle.Actor, id string, req *dto.SendPassRequest) (*dto.PassMutationResult, error) {
	next, err := s.transition(ctx, actor, id, lifecycle.Transition{
		Action:         lifecycle.ActionSend,
		RecipientEmail: req.RecipientEmail,
		SenderEmail:    req.SenderEmail,
	}, events.TypeSent)
	if err != nil {
		return nil, err
	}

	return &dto.PassMutationResult{
		Pass:    s.toResponse(next, actor, s.now()),
		Warning: s.deliverPass(ctx, next),
	}, nil
}

func (s *passService) Accept(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error) {
	next, err := s.transition(ctx, actor, id, lifecycle.Transition{Action: lifecycle.ActionAccept}, events.TypeAccepted)
	if err != nil {
		return nil, err
	}

	// 通知发件人，失败只记录
	if err := s.notifier.SendAcceptedEmail(ctx, next, s.recipientDisplayName(ctx, next, actor)); err != nil &&
		!errors.Is(err, pkgerrors.ErrMailDisabled) && !errors.Is(err, ErrNoSenderEmail) {
		s.logger.Warn("接受通知邮件发送失败", zap.String("pass_id", id), zap.Error(err))
	}

	return s.toResponse(next, actor, s.now()), nil
}

func (s *passService) Decline(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error) {
	next, err := s.transition(ctx, actor, id, lifecycle.Transition{Action: lifecycle.ActionDecline}, events.TypeDeclined)
	if err != nil {
		return nil, err
	}
	return s.toResponse(next, actor, s.now()), nil
}

func (s *passService) MarkUsed(ctx context.Context, actor lifecycle.Actor, id string) (*dto.PassResponse, error) {
	next, err := s.transition(ctx, actor, id, lifecycle.Transition{Action: lifecycle.ActionMarkUsed}, events.TypeUsed)
	if err != nil {
		return nil, err
	}
	return s.toResponse(next, actor, s.now()), nil
}

func (s *passService) Delete(ctx context.Context, actor lifecycle.Actor, id string) error {
	pass, role, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}

	now := s.now()
	today := lifecycle.Today(now, s.loc)
	if !lifecycle.CanTransition(pass, role, lifecycle.ActionDelete, today) {
		return s.mapTransitionError(&lifecycle.IllegalTransitionError{
			Action: lifecycle.ActionDelete,
			Role:   role,
			Status: lifecycle.EffectiveStatus(pass, today),
		}, lifecycle.ActionDelete)
	}

	// 从未发出：物理删除
	if !lifecycle.IsShared(pass) {
		if err := s.repo.Pass.Delete(ctx, pass.PassID, pass.Version); err != nil {
			return s.wrapWriteError(err, id)
		}
		s.publish(ctx, events.TypeDeleted, pass)
		s.logger.Info("删除卡券", zap.String("pass_id", id))
		return nil
	}

	// 已发出：owner 侧移除，收件人仍可见
	next, err := lifecycle.ApplyTransition(*pass, lifecycle.Transition{
		Action:   lifecycle.ActionDelete,
		Actor:    actor,
		Now:      now,
		Location: s.loc,
	})
	if err != nil {
		return s.mapTransitionError(err, lifecycle.ActionDelete)
	}
	next.UpdatedBy = &actor.UserID
	if err := s.repo.Pass.Update(ctx, &next); err != nil {
		return s.wrapWriteError(err, id)
	}

	s.publish(ctx, events.TypeDeleted, &next)
	s.logger.Info("移除已发出的卡券", zap.String("pass_id", id), zap.String("status", next.Status))
	return nil
}

// transition 读取、校验、乐观锁写回、发布事件
func (s *passService) transition(ctx context.Context, actor lifecycle.Actor, id string, t lifecycle.Transition, eventType string) (*model.Pass, error) {
	pass, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	t.Actor = actor
	t.Now = s.now()
	t.Location = s.loc

	next, err := lifecycle.ApplyTransition(*pass, t)
	if err != nil {
		return nil, s.mapTransitionError(err, t.Action)
	}
	next.UpdatedBy = &actor.UserID

	if err := s.repo.Pass.Update(ctx, &next); err != nil {
		return nil, s.wrapWriteError(err, id)
	}

	s.publish(ctx, eventType, &next)
	s.logger.Info("卡券状态变更",
		zap.String("pass_id", id),
		zap.String("action", string(t.Action)),
		zap.String("from", pass.Status),
		zap.String("to", next.Status),
	)
	return &next, nil
}

// ── 辅助函数 ──

// load 读取卡券并判定角色；owner 已移除的卡券对 owner 视为不存在
func (s *passService) load(ctx context.Context, actor lifecycle.Actor, id string) (*model.Pass, lifecycle.Role, error) {
	if !validPassID(id) {
		return nil, "", ErrPassNotFound
	}
	pass, err := s.repo.Pass.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPassNotFound
		}
		s.logger.Error("查询卡券失败", zap.String("pass_id", id), zap.Error(err))
		return nil, "", err
	}

	role := lifecycle.ResolveRole(pass, actor)
	if role == lifecycle.RoleOwner && pass.OwnerRemovedAt != nil {
		return nil, "", ErrPassNotFound
	}
	return pass, role, nil
}

// validPassID pass_id 是 uuid 列，格式不对的 id 不查库
func validPassID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *passService) mapTransitionError(err error, action lifecycle.Action) error {
	var ite *lifecycle.IllegalTransitionError
	if errors.As(err, &ite) {
		switch {
		case ite.Role == lifecycle.RoleOther:
			return ErrPassAccessDenied
		case action == lifecycle.ActionEdit:
			return ErrPassCannotEdit
		default:
			return ErrPassInvalidState
		}
	}
	return validationError(err)
}

func (s *passService) wrapWriteError(err error, id string) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		s.logger.Info("卡券并发修改冲突", zap.String("pass_id", id))
		return err
	}
	s.logger.Error("写入卡券失败", zap.String("pass_id", id), zap.Error(err))
	return err
}

// deliverPass 发送收件通知，返回需要附带的警告
func (s *passService) deliverPass(ctx context.Context, pass *model.Pass) string {
	if pass.RecipientEmail == nil {
		return ""
	}
	err := s.notifier.SendPassEmail(ctx, *pass.RecipientEmail, pass, pass.Message)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pkgerrors.ErrMailDisabled):
		return WarningEmailDisabled
	default:
		s.logger.Warn("卡券邮件发送失败", zap.String("pass_id", pass.PassID), zap.Error(err))
		return WarningEmailFailed
	}
}

func (s *passService) recipientDisplayName(ctx context.Context, pass *model.Pass, actor lifecycle.Actor) string {
	if user, err := s.repo.User.GetByID(ctx, actor.UserID); err == nil && user.DisplayName != "" {
		return user.DisplayName
	}
	return pass.RecipientName
}

func (s *passService) publish(ctx context.Context, eventType string, pass *model.Pass) {
	if s.broker == nil {
		return
	}
	e := events.NewEvent(eventType, pass.PassID)
	e.OwnerUserID = pass.OwnerUserID
	if pass.RecipientUserID != nil {
		e.RecipientUserID = *pass.RecipientUserID
	}
	if pass.RecipientEmail != nil {
		e.RecipientEmail = *pass.RecipientEmail
	}
	e.Status = string(lifecycle.EffectiveStatus(pass, lifecycle.Today(s.now(), s.loc)))

	if err := s.broker.Publish(ctx, e); err != nil {
		s.logger.Warn("发布卡券事件失败", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *passService) filter(req *dto.PassListRequest, now time.Time) repository.PassFilter {
	return repository.PassFilter{
		Status: req.Status,
		Today:  lifecycle.Today(now, s.loc),
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	}
}

func (s *passService) toResponses(passes []model.Pass, actor lifecycle.Actor, now time.Time) []dto.PassResponse {
	list := make([]dto.PassResponse, 0, len(passes))
	for i := range passes {
		list = append(list, *s.toResponse(&passes[i], actor, now))
	}
	return list
}

func (s *passService) toResponse(p *model.Pass, actor lifecycle.Actor, now time.Time) *dto.PassResponse {
	today := lifecycle.Today(now, s.loc)

	actions := lifecycle.AllowedActions(p, actor, today)
	allowed := make([]string, 0, len(actions))
	for _, a := range actions {
		allowed = append(allowed, string(a))
	}

	resp := &dto.PassResponse{
		ID:              p.PassID,
		OwnerUserID:     p.OwnerUserID,
		SenderName:      p.SenderName,
		RecipientName:   p.RecipientName,
		SenderEmail:     deref(p.SenderEmail),
		RecipientEmail:  deref(p.RecipientEmail),
		RecipientUserID: deref(p.RecipientUserID),
		RecipientType:   p.RecipientType,
		GiftType:        p.GiftType,
		Gift:            giftResponse(p.GiftType),
		Mood:            p.Mood,
		Message:         p.Message,
		UsageCondition:  p.UsageCondition,
		ValidityType:    p.ValidityType,
		ValidityDate:    formatDate(p.ValidityDate),
		IssueDate:       p.IssueDate.Format(dto.DateLayout),
		Status:          p.Status,
		EffectiveStatus: string(lifecycle.EffectiveStatus(p, today)),
		Role:            string(lifecycle.ResolveRole(p, actor)),
		AllowedActions:  allowed,
		Version:         p.Version,
	}
	if p.UsedAt != nil {
		resp.UsedAt = p.UsedAt.Format(time.RFC3339)
	}
	if p.SentAt != nil {
		resp.SentAt = p.SentAt.Format(time.RFC3339)
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func giftResponse(giftType string) *dto.GiftResponse {
	g, ok := catalog.LookupGift(giftType)
	if !ok {
		return nil
	}
	return &dto.GiftResponse{ID: g.ID, Title: g.Title, Description: g.Description, Emoji: g.Emoji}
}

func toEdit(req *dto.UpdatePassRequest) (lifecycle.Edit, error) {
	edit := lifecycle.Edit{
		SenderName:     req.SenderName,
		RecipientName:  req.RecipientName,
		SenderEmail:    req.SenderEmail,
		RecipientType:  req.RecipientType,
		GiftType:       req.GiftType,
		Mood:           req.Mood,
		Message:        req.Message,
		UsageCondition: req.UsageCondition,
		ValidityType:   req.ValidityType,
	}
	if req.GiftType != nil {
		if _, ok := catalog.LookupGift(*req.GiftType); !ok {
			return lifecycle.Edit{}, ErrInvalidGiftType
		}
	}
	// 显式传入的枚举字段不能为空串，否则会被当成默认值
	if req.RecipientType != nil && !catalog.IsValidRecipientType(*req.RecipientType) {
		return lifecycle.Edit{}, fmt.Errorf("%w: unknown recipient_type %q", ErrPassValidation, *req.RecipientType)
	}
	if req.Mood != nil && !catalog.IsValidMood(*req.Mood) {
		return lifecycle.Edit{}, fmt.Errorf("%w: unknown mood %q", ErrPassValidation, *req.Mood)
	}
	if req.ValidityType != nil && *req.ValidityType != lifecycle.ValidityLifetime && *req.ValidityType != lifecycle.ValidityDate {
		return lifecycle.Edit{}, fmt.Errorf("%w: validity_type must be lifetime or date", ErrPassValidation)
	}
	if req.ValidityDate != nil {
		d, err := parseDate(*req.ValidityDate)
		if err != nil {
			return lifecycle.Edit{}, err
		}
		edit.ValidityDate = d
	}
	return edit, nil
}

// parseDate 空串返回 nil
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: validity_date must be YYYY-MM-DD", ErrPassValidation)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPassValidation, err.Error())
}
