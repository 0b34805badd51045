// Package lifecycle 卡券状态机：有效状态推导、角色判定、迁移合法性与迁移结果计算。
// 纯函数，不做任何 I/O；调用方先校验再落库。
package lifecycle

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lodymel/heartpass/internal/model"
)

// Status 卡券状态
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired" // 只由 EffectiveStatus 推导，不落库
	StatusCancelled Status = "cancelled"
)

// IsTerminal used / cancelled / expired 之后只允许 owner 删除
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusCancelled || s == StatusExpired
}

// Action 状态迁移动作
type Action string

const (
	ActionSend     Action = "send"
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionMarkUsed Action = "mark_used"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
)

// allActions AllowedActions 的输出顺序
var allActions = []Action{ActionEdit, ActionSend, ActionAccept, ActionDecline, ActionMarkUsed, ActionDelete}

// Role 操作者相对卡券的角色
type Role string

const (
	RoleOwner     Role = "owner"
	RoleRecipient Role = "recipient"
	RoleOther     Role = "other"
)

const (
	ValidityLifetime = "lifetime"
	ValidityDate     = "date"
)

var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrSelfRecipient       = errors.New("you cannot send a pass to yourself")
	ErrGiftTypeRequired    = errors.New("gift type is required")
	ErrInvalidValidityType = errors.New("validity type must be lifetime or date")
	ErrValidityDateMissing = errors.New("validity date is required when validity type is date")
	ErrValidityDateInPast  = errors.New("validity date cannot be in the past")
	ErrEditPayloadMissing  = errors.New("edit payload is required")
	ErrRecipientAccount    = errors.New("an account is required to accept a pass")
)

// IllegalTransitionError 角色/动作/状态组合不合法
type IllegalTransitionError struct {
	Action Action
	Role   Role
	Status Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s cannot %s a %s pass", e.Role, e.Action, e.Status)
}

// IsIllegalTransition 判断错误链中是否包含 IllegalTransitionError
func IsIllegalTransition(err error) bool {
	var ite *IllegalTransitionError
	return errors.As(err, &ite)
}

// Actor 当前会话身份，来自已校验的 Token
type Actor struct {
	UserID string
	Email  string
}

// ────────────────────── 日期 ──────────────────────

// Today 返回 loc 时区下 now 所在的日历日，统一表示为 UTC 零点
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// DateOnly 截取 t 自身时区下的年月日，表示为 UTC 零点
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ────────────────────── 查询 ──────────────────────

// EffectiveStatus 计算展示状态
// used / cancelled 原样返回；按日期有效且 validityDate < today 时为 expired
func EffectiveStatus(p *model.Pass, today time.Time) Status {
	stored := Status(p.Status)
	if stored == StatusUsed || stored == StatusCancelled {
		return stored
	}
	if isPastValidity(p, today) {
		return StatusExpired
	}
	return stored
}

func isPastValidity(p *model.Pass, today time.Time) bool {
	if p.ValidityType != ValidityDate || p.ValidityDate == nil {
		return false
	}
	return DateOnly(*p.ValidityDate).Before(DateOnly(today))
}

// ResolveRole 判定操作者角色，owner 优先
func ResolveRole(p *model.Pass, actor Actor) Role {
	if actor.UserID != "" && actor.UserID == p.OwnerUserID {
		return RoleOwner
	}
	if actor.UserID != "" && p.RecipientUserID != nil && *p.RecipientUserID == actor.UserID {
		return RoleRecipient
	}
	if actor.Email != "" && p.RecipientEmail != nil && NormalizeEmail(*p.RecipientEmail) == NormalizeEmail(actor.Email) {
		return RoleRecipient
	}
	return RoleOther
}

// IsShared 是否已经发给收件人（决定硬删除还是 owner 侧移除）
func IsShared(p *model.Pass) bool {
	return p.RecipientEmail != nil && *p.RecipientEmail != ""
}

// CanTransition 基于有效状态判断迁移是否合法，未列出的组合一律 false
func CanTransition(p *model.Pass, role Role, action Action, today time.Time) bool {
	eff := EffectiveStatus(p, today)

	switch action {
	case ActionSend:
		return role == RoleOwner && eff == StatusActive && !IsShared(p)
	case ActionAccept:
		return role == RoleRecipient && eff == StatusPending
	case ActionDecline:
		return role == RoleRecipient && eff == StatusPending
	case ActionMarkUsed:
		return role == RoleRecipient && eff == StatusAccepted
	case ActionEdit:
		return role == RoleOwner && eff == StatusActive && !IsShared(p)
	case ActionDelete:
		return role == RoleOwner
	default:
		return false
	}
}

// AllowedActions 当前操作者可执行的动作
func AllowedActions(p *model.Pass, actor Actor, today time.Time) []Action {
	role := ResolveRole(p, actor)
	actions := make([]Action, 0, 2)
	for _, a := range allActions {
		if CanTransition(p, role, a, today) {
			actions = append(actions, a)
		}
	}
	return actions
}

// ────────────────────── 迁移 ──────────────────────

// Transition 一次迁移请求
type Transition struct {
	Action         Action
	Actor          Actor
	RecipientEmail string // send
	SenderEmail    string // send，可选
	Edit           *Edit  // edit
	Now            time.Time
	Location       *time.Location
}

// ApplyTransition 计算迁移后的卡券副本，不修改入参
func ApplyTransition(p model.Pass, t Transition) (model.Pass, error) {
	today := Today(t.Now, t.Location)
	role := ResolveRole(&p, t.Actor)

	if !CanTransition(&p, role, t.Action, today) {
		return p, &IllegalTransitionError{
			Action: t.Action,
			Role:   role,
			Status: EffectiveStatus(&p, today),
		}
	}

	next := p
	now := t.Now

	switch t.Action {
	case ActionSend:
		to, err := ValidateEmail(t.RecipientEmail)
		if err != nil {
			return p, err
		}
		if t.Actor.Email != "" && to == NormalizeEmail(t.Actor.Email) {
			return p, ErrSelfRecipient
		}
		if t.SenderEmail != "" {
			from, err := ValidateEmail(t.SenderEmail)
			if err != nil {
				return p, err
			}
			next.SenderEmail = &from
		}
		next.RecipientEmail = &to
		next.Status = string(StatusPending)
		next.SentAt = &now

	case ActionAccept:
		if t.Actor.UserID == "" {
			return p, ErrRecipientAccount
		}
		uid := t.Actor.UserID
		next.RecipientUserID = &uid
		next.Status = string(StatusAccepted)

	case ActionDecline:
		next.Status = string(StatusCancelled)

	case ActionMarkUsed:
		next.Status = string(StatusUsed)
		next.UsedAt = &now

	case ActionEdit:
		if t.Edit == nil {
			return p, ErrEditPayloadMissing
		}
		if err := t.Edit.applyTo(&next, today); err != nil {
			return p, err
		}

	case ActionDelete:
		next.OwnerRemovedAt = &now
		// 已发出且仍在进行中的卡券对收件人显示为 cancelled；终态不覆盖
		eff := EffectiveStatus(&p, today)
		if IsShared(&p) && (eff == StatusPending || eff == StatusAccepted) {
			next.Status = string(StatusCancelled)
		}
	}

	return next, nil
}

// ApplyEdit ApplyTransition(edit) 的便捷封装
func ApplyEdit(p model.Pass, e Edit, actor Actor, now time.Time, loc *time.Location) (model.Pass, error) {
	return ApplyTransition(p, Transition{
		Action:   ActionEdit,
		Actor:    actor,
		Edit:     &e,
		Now:      now,
		Location: loc,
	})
}

// ────────────────────── 创建与编辑 ──────────────────────

// Draft 新建卡券的输入
type Draft struct {
	SenderName     string
	RecipientName  string
	SenderEmail    string
	RecipientType  string
	GiftType       string
	Mood           string
	Message        string
	UsageCondition string
	ValidityType   string
	ValidityDate   *time.Time
}

// NewPass 以 owner 身份创建 active 卡券，issueDate 取 loc 下的当天
func NewPass(d Draft, owner Actor, now time.Time, loc *time.Location) (model.Pass, error) {
	today := Today(now, loc)

	if strings.TrimSpace(d.GiftType) == "" {
		return model.Pass{}, ErrGiftTypeRequired
	}
	validityType, validityDate, err := normalizeValidity(d.ValidityType, d.ValidityDate, today)
	if err != nil {
		return model.Pass{}, err
	}

	p := model.Pass{
		OwnerUserID:    owner.UserID,
		SenderName:     strings.TrimSpace(d.SenderName),
		RecipientName:  strings.TrimSpace(d.RecipientName),
		RecipientType:  d.RecipientType,
		GiftType:       d.GiftType,
		Mood:           d.Mood,
		Message:        strings.TrimSpace(d.Message),
		UsageCondition: strings.TrimSpace(d.UsageCondition),
		ValidityType:   validityType,
		ValidityDate:   validityDate,
		IssueDate:      today,
		Status:         string(StatusActive),
	}
	p.Version = 1

	if d.SenderEmail != "" {
		from, err := ValidateEmail(d.SenderEmail)
		if err != nil {
			return model.Pass{}, err
		}
		p.SenderEmail = &from
	}

	return p, nil
}

// Edit 可编辑字段，nil 表示不修改
type Edit struct {
	SenderName     *string
	RecipientName  *string
	SenderEmail    *string
	RecipientType  *string
	GiftType       *string
	Mood           *string
	Message        *string
	UsageCondition *string
	ValidityType   *string
	ValidityDate   *time.Time
}

func (e *Edit) applyTo(p *model.Pass, today time.Time) error {
	if e.GiftType != nil {
		if strings.TrimSpace(*e.GiftType) == "" {
			return ErrGiftTypeRequired
		}
		p.GiftType = *e.GiftType
	}
	if e.SenderName != nil {
		p.SenderName = strings.TrimSpace(*e.SenderName)
	}
	if e.RecipientName != nil {
		p.RecipientName = strings.TrimSpace(*e.RecipientName)
	}
	if e.SenderEmail != nil {
		if *e.SenderEmail == "" {
			p.SenderEmail = nil
		} else {
			from, err := ValidateEmail(*e.SenderEmail)
			if err != nil {
				return err
			}
			p.SenderEmail = &from
		}
	}
	if e.RecipientType != nil {
		p.RecipientType = *e.RecipientType
	}
	if e.Mood != nil {
		p.Mood = *e.Mood
	}
	if e.Message != nil {
		p.Message = strings.TrimSpace(*e.Message)
	}
	if e.UsageCondition != nil {
		p.UsageCondition = strings.TrimSpace(*e.UsageCondition)
	}

	if e.ValidityType != nil || e.ValidityDate != nil {
		vt := p.ValidityType
		if e.ValidityType != nil {
			vt = *e.ValidityType
		}
		vd := p.ValidityDate
		if e.ValidityDate != nil {
			vd = e.ValidityDate
		}
		validityType, validityDate, err := normalizeValidity(vt, vd, today)
		if err != nil {
			return err
		}
		p.ValidityType = validityType
		p.ValidityDate = validityDate
	}
	return nil
}

// normalizeValidity lifetime 时清空日期；date 时日期必填且不早于今天
func normalizeValidity(validityType string, date *time.Time, today time.Time) (string, *time.Time, error) {
	switch validityType {
	case "", ValidityLifetime:
		return ValidityLifetime, nil, nil
	case ValidityDate:
		if date == nil {
			return "", nil, ErrValidityDateMissing
		}
		d := DateOnly(*date)
		if d.Before(DateOnly(today)) {
			return "", nil, ErrValidityDateInPast
		}
		return ValidityDate, &d, nil
	default:
		return "", nil, ErrInvalidValidityType
	}
}

// ────────────────────── 邮箱 ──────────────────────

// NormalizeEmail 去空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail 校验单个裸地址并返回规范化结果
func ValidateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	if !strings.Contains(normalized[strings.LastIndex(normalized, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
