package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/internal/access"
	"github.com/fahroediin/resource-tracker/internal/capacity"
	"github.com/fahroediin/resource-tracker/internal/dto"
	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
)

// MemberService 成员业务接口
type MemberService interface {
	View(ctx context.Context, actor *access.Actor, query string) (*dto.MembersView, error)
	Get(ctx context.Context, id string) (*dto.MemberResponse, error)
	Create(ctx context.Context, actor *access.Actor, req *dto.MemberRequest) (*dto.MemberResponse, error)
	Update(ctx context.Context, actor *access.Actor, id string, req *dto.MemberRequest) (*dto.MemberResponse, error)
	Delete(ctx context.Context, actor *access.Actor, id string) error

	// ParseImportFile 解析成员导入 Excel（首行为表头）
	ParseImportFile(reader io.Reader) ([]ImportMemberRow, error)
	// Import 校验后在单个事务中写入全部有效行
	Import(ctx context.Context, actor *access.Actor, rows []ImportMemberRow) (*dto.ImportMemberResponse, error)
}

// ImportMemberRow Excel 导入解析后的单行数据
type ImportMemberRow struct {
	Row    int
	Name   string
	Role   string
	Status string
	Email  string
}

type memberService struct {
	repo     *repository.Repository
	activity ActivityService
	logger   *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, activity ActivityService, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, activity: activity, logger: logger}
}

// ────────────────────── View ──────────────────────

func (s *memberService) View(ctx context.Context, actor *access.Actor, query string) (*dto.MembersView, error) {
	members, err := s.repo.Member.List(ctx)
	if err != nil {
		s.logger.Error("查询成员列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load members", err)
	}
	projects, err := s.repo.Project.List(ctx)
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load projects", err)
	}
	pivot, err := s.repo.Skill.Pivot(ctx)
	if err != nil {
		s.logger.Error("查询技能评分失败", zap.Error(err))
		return nil, pkgerrors.Store("load skills", err)
	}

	needle := strings.ToLower(query)
	filtered := slice.FindAll(members, func(m model.Member) bool {
		return strings.Contains(strings.ToLower(m.Name), needle) ||
			strings.Contains(strings.ToLower(m.Role), needle)
	})

	util := capacity.Utilizations(projects)
	editable := actor.CanEdit()

	rows := slice.Map(filtered, func(i int, m model.Member) dto.MemberRow {
		pct := util[m.MemberID]
		return dto.MemberRow{
			MemberResponse: toMemberResponse(&m),
			StatusClass:    m.Status.BadgeClass(),
			Initials:       dto.Initials(m.Name),
			AvatarColor:    dto.AvatarColor(i),
			Utilization:    pct,
			Band:           capacity.ClassifyBand(pct).Class(),
			BarWidth:       capacity.BarWidth(pct),
			OverAllocated:  capacity.IsOverAllocated(pct),
			TopSkills:      topSkills(pivot[m.MemberID]),
			CanEdit:        editable,
			CanDelete:      editable,
		}
	})

	return &dto.MembersView{
		Query: query,
		Rows:  rows,
		Empty: len(rows) == 0,
		Roles: model.JobTitles,
		Statuses: slice.Map(model.AllMemberStatuses(), func(_ int, st model.MemberStatus) string {
			return string(st)
		}),
		Permissions: dto.EntityPermissions{
			CanAdd:    editable,
			CanEdit:   editable,
			CanDelete: editable,
		},
	}, nil
}

// topSkills 等级 ≥ 4 的技能，按等级降序，同级保持技能列表顺序，最多 3 项
func topSkills(levels map[string]int) []dto.TopSkill {
	out := make([]dto.TopSkill, 0, 3)
	for _, name := range model.SkillNames {
		if lv := levels[name]; lv >= model.TopSkillLevel {
			out = append(out, dto.TopSkill{Name: name, Level: lv})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// ────────────────────── Get ──────────────────────

func (s *memberService) Get(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toMemberResponse(member)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, actor *access.Actor, req *dto.MemberRequest) (*dto.MemberResponse, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}

	member := &model.Member{}
	if err := applyMemberRequest(member, req); err != nil {
		return nil, err
	}

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建成员失败", zap.String("name", member.Name), zap.Error(err))
		return nil, pkgerrors.Store("create member", err)
	}

	s.activity.Record(ctx, actor, model.ActionCreate, model.EntityMember, member.MemberID)
	s.logger.Info("成员已创建", zap.String("member_id", member.MemberID))

	resp := toMemberResponse(member)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, actor *access.Actor, id string, req *dto.MemberRequest) (*dto.MemberResponse, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}

	var draft model.Member
	if err := applyMemberRequest(&draft, req); err != nil {
		return nil, err
	}

	member, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = draft.Name
	member.Role = draft.Role
	member.Status = draft.Status
	member.Email = draft.Email

	if err := s.repo.Member.Update(ctx, member); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("更新成员失败", zap.String("member_id", id), zap.Error(err))
		return nil, pkgerrors.Store("update member", err)
	}

	s.activity.Record(ctx, actor, model.ActionUpdate, model.EntityMember, id)

	resp := toMemberResponse(member)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除成员；项目分配与技能评分由外键级联删除
func (s *memberService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if err := requireEditor(actor); err != nil {
		return err
	}
	if !isUUID(id) {
		return ErrMemberNotFound
	}

	if err := s.repo.Member.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrMemberNotFound
		}
		s.logger.Error("删除成员失败", zap.String("member_id", id), zap.Error(err))
		return pkgerrors.Store("delete member", err)
	}

	s.activity.Record(ctx, actor, model.ActionDelete, model.EntityMember, id)
	s.logger.Info("成员已删除", zap.String("member_id", id))
	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("the spreadsheet has no data rows (the first row is the header)")
	ErrImportTooManyRows = fmt.Errorf("the spreadsheet has more than %d data rows", maxImportRows)
	ErrImportBadHeader   = errors.New("the spreadsheet header must contain a Name column")
	ErrImportUnreadable  = errors.New("the file is not a readable .xlsx workbook")
)

func (s *memberService) ParseImportFile(reader io.Reader) ([]ImportMemberRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		s.logger.Warn("解析导入文件失败", zap.Error(err))
		return nil, ErrImportUnreadable
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		s.logger.Warn("读取工作表失败", zap.Error(err))
		return nil, ErrImportUnreadable
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseMemberHeader(excelRows[0])
	if colIndex["name"] < 0 {
		return nil, ErrImportBadHeader
	}

	cellAt := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportMemberRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportMemberRow{
			Row:    i + 1,
			Name:   cellAt(r, "name"),
			Role:   cellAt(r, "role"),
			Status: cellAt(r, "status"),
			Email:  cellAt(r, "email"),
		}
		// 跳过全空行
		if item.Name == "" && item.Role == "" && item.Status == "" && item.Email == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseMemberHeader 表头列名 → 列索引，缺失列为 -1
func parseMemberHeader(header []string) map[string]int {
	idx := map[string]int{"name": -1, "role": -1, "status": -1, "email": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

func (s *memberService) Import(ctx context.Context, actor *access.Actor, rows []ImportMemberRow) (*dto.ImportMemberResponse, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}

	resp := &dto.ImportMemberResponse{Total: len(rows)}

	// 第一阶段：逐行校验，不触碰数据库
	valid := make([]model.Member, 0, len(rows))
	for _, row := range rows {
		var m model.Member
		err := applyMemberRequest(&m, &dto.MemberRequest{
			Name:   row.Name,
			Role:   row.Role,
			Status: row.Status,
			Email:  row.Email,
		})
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportMemberError{Row: row.Row, Reason: validationMessage(err)})
			continue
		}
		valid = append(valid, m)
	}

	// 第二阶段：同一事务内批量写入，保持表格行序
	if len(valid) > 0 {
		base := time.Now()
		for i := range valid {
			valid[i].CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		}

		err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			return txRepo.Member.BatchCreate(ctx, valid)
		})
		if err != nil {
			s.logger.Error("导入成员写入失败，事务回滚", zap.Int("rows", len(valid)), zap.Error(err))
			return nil, pkgerrors.Store("import members", err)
		}
		resp.Success = len(valid)
	}

	s.activity.Record(ctx, actor, model.ActionImport, model.EntityMember, strconv.Itoa(resp.Success))
	s.logger.Info("成员导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *memberService) find(ctx context.Context, id string) (*model.Member, error) {
	if !isUUID(id) {
		return nil, ErrMemberNotFound
	}
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("member_id", id), zap.Error(err))
		return nil, pkgerrors.Store("load member", err)
	}
	return member, nil
}

// applyMemberRequest 校验表单并写入实体；职位与状态为空时使用表单默认值
func applyMemberRequest(m *model.Member, req *dto.MemberRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return pkgerrors.Invalid("name", "Name is required")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.DefaultMemberRole
	}

	status := model.MemberStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.DefaultMemberStatus
	}
	if !status.Valid() {
		return pkgerrors.Invalid("status", "Invalid member status")
	}

	m.Name = name
	m.Role = role
	m.Status = status
	m.Email = strings.TrimSpace(req.Email)
	return nil
}

func toMemberResponse(m *model.Member) dto.MemberResponse {
	return dto.MemberResponse{
		ID:        m.MemberID,
		Name:      m.Name,
		Role:      m.Role,
		Status:    string(m.Status),
		Email:     m.Email,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/member_service.go
