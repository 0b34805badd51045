package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/internal/lifecycle"
	"github.com/lodymel/heartpass/internal/model"
	"github.com/lodymel/heartpass/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPasses     = errors.New("no passes to export")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// ExportService 导出业务接口
//
// 导出以 bytes 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSent 已发卡券导出为 Excel，返回内容与建议文件名
	ExportSent(ctx context.Context, ownerID string) (*bytes.Buffer, string, error)
	// ReceivedCalendar 收到的、按日期有效且仍在进行中的卡券导出为 iCalendar
	ReceivedCalendar(ctx context.Context, actor lifecycle.Actor) ([]byte, error)
}

type exportService struct {
	repo    *repository.Repository
	baseURL string
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:    repo,
		baseURL: strings.TrimRight(cfg.Server.BaseURL, "/"),
		loc:     cfg.App.Location(),
		now:     time.Now,
		logger:  logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportSent 已发卡券导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 单 Sheet，每行一张卡券，状态列为展示状态（含 expired）

var sentColumns = []struct {
	title string
	width float64
}{
	{"Gift", 28},
	{"Recipient", 18},
	{"Recipient Email", 28},
	{"Status", 12},
	{"Issue Date", 12},
	{"Valid Until", 12},
	{"Sent At", 20},
	{"Used At", 20},
	{"Message", 60},
}

func (s *exportService) ExportSent(ctx context.Context, ownerID string) (*bytes.Buffer, string, error) {
	now := s.now()
	today := lifecycle.Today(now, s.loc)

	// 1. 查询全部已发卡券
	passes, _, err := s.repo.Pass.ListByOwner(ctx, ownerID, repository.PassFilter{Today: today})
	if err != nil {
		s.logger.Error("查询已发卡券失败", zap.String("owner", ownerID), zap.Error(err))
		return nil, "", err
	}
	if len(passes) == 0 {
		return nil, "", ErrExportNoPasses
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sent Passes"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F20E0E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, col := range sentColumns {
		name := colName(i)
		f.SetColWidth(sheetName, name, name, col.width)
		f.SetCellValue(sheetName, cell(name, 1), col.title)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(sentColumns)-1), 1), headerStyle)

	// 数据行
	for i := range passes {
		p := &passes[i]
		row := i + 2
		values := []interface{}{
			catalog.GiftTitle(p.GiftType),
			p.RecipientName,
			deref(p.RecipientEmail),
			string(lifecycle.EffectiveStatus(p, today)),
			p.IssueDate.Format("2006-01-02"),
			validUntil(p),
			formatLocal(p.SentAt, s.loc),
			formatLocal(p.UsedAt, s.loc),
			p.Message,
		}
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), v)
		}
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("heartpass_sent_%s.xlsx", today.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ReceivedCalendar 收到的卡券到期日导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每张 validity_type=date 且展示状态为 pending / accepted 的卡券生成一个全天事件

func (s *exportService) ReceivedCalendar(ctx context.Context, actor lifecycle.Actor) ([]byte, error) {
	now := s.now()
	today := lifecycle.Today(now, s.loc)

	passes, _, err := s.repo.Pass.ListReceived(ctx, actor.UserID, lifecycle.NormalizeEmail(actor.Email), repository.PassFilter{Today: today})
	if err != nil {
		s.logger.Error("查询收到的卡券失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//HeartPass//Passes//EN")
	cal.SetXWRCalName("HeartPass")

	for i := range passes {
		p := &passes[i]
		if p.ValidityType != lifecycle.ValidityDate || p.ValidityDate == nil {
			continue
		}
		eff := lifecycle.EffectiveStatus(p, today)
		if eff != lifecycle.StatusPending && eff != lifecycle.StatusAccepted {
			continue
		}

		event := cal.AddEvent(p.PassID + "@heartpass")
		event.SetDtStampTime(now.UTC())
		event.SetAllDayStartAt(*p.ValidityDate)
		event.SetAllDayEndAt(p.ValidityDate.AddDate(0, 0, 1))
		event.SetSummary(calendarSummary(p))
		event.SetDescription(calendarDescription(p))
		event.SetURL(fmt.Sprintf("%s/card?id=%s", s.baseURL, p.PassID))
	}

	return []byte(cal.Serialize()), nil
}

// ── 辅助函数 ──

func calendarSummary(p *model.Pass) string {
	title := catalog.GiftTitle(p.GiftType)
	if p.SenderName != "" {
		return fmt.Sprintf("💝 %s from %s expires", title, p.SenderName)
	}
	return fmt.Sprintf("💝 %s expires", title)
}

func calendarDescription(p *model.Pass) string {
	var b strings.Builder
	b.WriteString(p.Message)
	if p.UsageCondition != "" {
		b.WriteString("\n\n")
		b.WriteString(p.UsageCondition)
	}
	return b.String()
}

func validUntil(p *model.Pass) string {
	if p.ValidityType == lifecycle.ValidityDate && p.ValidityDate != nil {
		return p.ValidityDate.Format("2006-01-02")
	}
	return "Lifetime"
}

func formatLocal(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
