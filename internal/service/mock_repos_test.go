package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
)

var errMockStore = errors.New("mock store unavailable")

// ── 共享内存存储 ──

// memDB 各 mock repo 共享的数据，模拟外键级联
type memDB struct {
	members     []model.Member
	projects    []model.Project
	assignments []model.Assignment
	skills      []model.SkillRating
	profiles    []model.Profile
	identities  []model.Identity
	logs        []model.ActivityLog

	// fail 以 "member.list" 形式注入错误
	fail map[string]error
}

func newMemDB() *memDB {
	return &memDB{fail: make(map[string]error)}
}

func (db *memDB) err(op string) error {
	return db.fail[op]
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

func fillID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// newMockRepository 组装 Repository 聚合（未绑定数据库，Transaction 直接执行回调）
func newMockRepository(db *memDB) *repository.Repository {
	return &repository.Repository{
		Member:      &mockMemberRepo{db: db},
		Project:     &mockProjectRepo{db: db},
		Assignment:  &mockAssignmentRepo{db: db},
		Skill:       &mockSkillRepo{db: db},
		Profile:     &mockProfileRepo{db: db},
		Identity:    &mockIdentityRepo{db: db},
		ActivityLog: &mockActivityLogRepo{db: db},
	}
}

// ── Mock MemberRepository ──

type mockMemberRepo struct{ db *memDB }

func (m *mockMemberRepo) List(_ context.Context) ([]model.Member, error) {
	if err := m.db.err("member.list"); err != nil {
		return nil, err
	}
	out := make([]model.Member, len(m.db.members))
	copy(out, m.db.members)
	return out, nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	for _, mem := range m.db.members {
		if mem.MemberID == id {
			cp := mem
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) Count(_ context.Context) (int64, error) {
	if err := m.db.err("member.count"); err != nil {
		return 0, err
	}
	return int64(len(m.db.members)), nil
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if err := m.db.err("member.create"); err != nil {
		return err
	}
	fillID(&member.MemberID)
	stamp(&member.CreatedAt)
	m.db.members = append(m.db.members, *member)
	return nil
}

func (m *mockMemberRepo) BatchCreate(ctx context.Context, members []model.Member) error {
	if err := m.db.err("member.batch"); err != nil {
		return err
	}
	for i := range members {
		if err := m.Create(ctx, &members[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	for i := range m.db.members {
		if m.db.members[i].MemberID == member.MemberID {
			m.db.members[i].Name = member.Name
			m.db.members[i].Role = member.Role
			m.db.members[i].Status = member.Status
			m.db.members[i].Email = member.Email
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	if err := m.db.err("member.delete"); err != nil {
		return err
	}
	for i := range m.db.members {
		if m.db.members[i].MemberID == id {
			m.db.members = append(m.db.members[:i], m.db.members[i+1:]...)
			m.db.assignments = filterAssignments(m.db.assignments, func(a model.Assignment) bool { return a.MemberID != id })
			kept := m.db.skills[:0]
			for _, s := range m.db.skills {
				if s.MemberID != id {
					kept = append(kept, s)
				}
			}
			m.db.skills = kept
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func filterAssignments(rows []model.Assignment, keep func(model.Assignment) bool) []model.Assignment {
	out := rows[:0]
	for _, a := range rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct{ db *memDB }

func (m *mockProjectRepo) withAssignments(p model.Project) model.Project {
	p.Assignments = nil
	for _, a := range m.db.assignments {
		if a.ProjectID == p.ProjectID {
			p.Assignments = append(p.Assignments, a)
		}
	}
	return p
}

func (m *mockProjectRepo) List(_ context.Context) ([]model.Project, error) {
	if err := m.db.err("project.list"); err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(m.db.projects))
	for _, p := range m.db.projects {
		out = append(out, m.withAssignments(p))
	}
	return out, nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	for _, p := range m.db.projects {
		if p.ProjectID == id {
			cp := m.withAssignments(p)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if err := m.db.err("project.create"); err != nil {
		return err
	}
	fillID(&project.ProjectID)
	stamp(&project.CreatedAt)
	row := *project
	row.Assignments = nil
	m.db.projects = append(m.db.projects, row)
	return nil
}

func (m *mockProjectRepo) BatchCreate(ctx context.Context, projects []model.Project) error {
	for i := range projects {
		if err := m.Create(ctx, &projects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	if err := m.db.err("project.update"); err != nil {
		return err
	}
	for i := range m.db.projects {
		if m.db.projects[i].ProjectID == project.ProjectID {
			p := &m.db.projects[i]
			p.Name = project.Name
			p.Priority = project.Priority
			p.Status = project.Status
			p.StartDate = project.StartDate
			p.EndDate = project.EndDate
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	for i := range m.db.projects {
		if m.db.projects[i].ProjectID == id {
			m.db.projects = append(m.db.projects[:i], m.db.projects[i+1:]...)
			m.db.assignments = filterAssignments(m.db.assignments, func(a model.Assignment) bool { return a.ProjectID != id })
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ db *memDB }

func (m *mockAssignmentRepo) ListByProject(_ context.Context, projectID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.db.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) DeleteByProject(_ context.Context, projectID string) error {
	m.db.assignments = filterAssignments(m.db.assignments, func(a model.Assignment) bool { return a.ProjectID != projectID })
	return nil
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, rows []model.Assignment) error {
	if err := m.db.err("assignment.batch"); err != nil {
		return err
	}
	for i := range rows {
		for _, a := range m.db.assignments {
			if a.ProjectID == rows[i].ProjectID && a.MemberID == rows[i].MemberID {
				return errors.New("duplicate key value violates unique constraint \"uq_project_member\"")
			}
		}
		fillID(&rows[i].AssignmentID)
		stamp(&rows[i].CreatedAt)
		m.db.assignments = append(m.db.assignments, rows[i])
	}
	return nil
}

func (m *mockAssignmentRepo) ReplaceForProject(ctx context.Context, projectID string, rows []model.Assignment) error {
	if err := m.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	for i := range rows {
		rows[i].ProjectID = projectID
	}
	return m.BatchCreate(ctx, rows)
}

// ── Mock SkillRepository ──

type mockSkillRepo struct{ db *memDB }

func (m *mockSkillRepo) ListAll(_ context.Context) ([]model.SkillRating, error) {
	out := make([]model.SkillRating, len(m.db.skills))
	copy(out, m.db.skills)
	return out, nil
}

func (m *mockSkillRepo) Pivot(_ context.Context) (map[string]map[string]int, error) {
	if err := m.db.err("skill.pivot"); err != nil {
		return nil, err
	}
	return repository.PivotSkills(m.db.skills), nil
}

func (m *mockSkillRepo) Upsert(_ context.Context, memberID, skillName string, level int) error {
	if err := m.db.err("skill.upsert"); err != nil {
		return err
	}
	for i := range m.db.skills {
		if m.db.skills[i].MemberID == memberID && m.db.skills[i].SkillName == skillName {
			m.db.skills[i].Level = level
			m.db.skills[i].UpdatedAt = time.Now()
			return nil
		}
	}
	m.db.skills = append(m.db.skills, model.SkillRating{
		MemberID: memberID, SkillName: skillName, Level: level, UpdatedAt: time.Now(),
	})
	return nil
}

func (m *mockSkillRepo) BatchCreate(_ context.Context, rows []model.SkillRating) error {
	m.db.skills = append(m.db.skills, rows...)
	return nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct{ db *memDB }

func (m *mockProfileRepo) List(_ context.Context) ([]model.Profile, error) {
	if err := m.db.err("profile.list"); err != nil {
		return nil, err
	}
	out := make([]model.Profile, len(m.db.profiles))
	copy(out, m.db.profiles)
	return out, nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if err := m.db.err("profile.get"); err != nil {
		return nil, err
	}
	for _, p := range m.db.profiles {
		if p.ProfileID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if err := m.db.err("profile.create"); err != nil {
		return err
	}
	stamp(&profile.CreatedAt)
	m.db.profiles = append(m.db.profiles, *profile)
	return nil
}

func (m *mockProfileRepo) UpdateRole(_ context.Context, id string, role model.Role) error {
	for i := range m.db.profiles {
		if m.db.profiles[i].ProfileID == id {
			m.db.profiles[i].Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Delete(_ context.Context, id string) error {
	for i := range m.db.profiles {
		if m.db.profiles[i].ProfileID == id {
			m.db.profiles = append(m.db.profiles[:i], m.db.profiles[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock IdentityRepository ──

type mockIdentityRepo struct{ db *memDB }

func (m *mockIdentityRepo) Create(_ context.Context, identity *model.Identity) error {
	if err := m.db.err("identity.create"); err != nil {
		return err
	}
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	for _, i := range m.db.identities {
		if i.Email == identity.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	fillID(&identity.IdentityID)
	stamp(&identity.CreatedAt)
	m.db.identities = append(m.db.identities, *identity)
	return nil
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (*model.Identity, error) {
	for _, i := range m.db.identities {
		if i.IdentityID == id {
			cp := i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (*model.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, i := range m.db.identities {
		if i.Email == email {
			cp := i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct{ db *memDB }

func (m *mockActivityLogRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	if err := m.db.err("activity.create"); err != nil {
		return err
	}
	fillID(&entry.ActivityID)
	stamp(&entry.CreatedAt)
	m.db.logs = append(m.db.logs, *entry)
	return nil
}

func (m *mockActivityLogRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	out := make([]model.ActivityLog, 0, limit)
	for i := len(m.db.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.db.logs[i])
	}
	return out, nil
}
