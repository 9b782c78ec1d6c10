package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hunde51/task-management-app/internal/authz"
	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/events"
	"github.com/hunde51/task-management-app/internal/repository"
)

// memStore backs the in-memory repository fakes used across the service
// tests. All fakes share one store so joins behave like the real queries.
type memStore struct {
	users       map[int64]*domain.User
	teams       map[int64]*domain.Team
	memberships []*domain.Membership
	projects    map[int64]*domain.Project
	tasks       map[int64]*domain.Task
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*domain.User),
		teams:    make(map[int64]*domain.Team),
		projects: make(map[int64]*domain.Project),
		tasks:    make(map[int64]*domain.Task),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(username string) *domain.User {
	user := &domain.User{
		ID:        s.id(),
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		LastName:  "tester",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	s.users[user.ID] = user
	return user
}

// addTeam creates a team together with the creator's owner membership, the
// state CreateTeam guarantees.
func (s *memStore) addTeam(name string, ownerID int64) *domain.Team {
	team := &domain.Team{ID: s.id(), Name: name, CreatedBy: ownerID, CreatedAt: time.Now()}
	s.teams[team.ID] = team
	s.addMembership(team.ID, ownerID, domain.TeamRoleOwner)
	return team
}

func (s *memStore) addMembership(teamID, userID int64, role domain.TeamRole) *domain.Membership {
	m := &domain.Membership{ID: s.id(), TeamID: teamID, UserID: userID, Role: role, JoinedAt: time.Now()}
	s.memberships = append(s.memberships, m)
	return m
}

func (s *memStore) addProject(teamID int64, name string, creatorID int64) *domain.Project {
	project := &domain.Project{ID: s.id(), TeamID: teamID, Name: name, CreatedBy: creatorID, CreatedAt: time.Now()}
	s.projects[project.ID] = project
	return project
}

func (s *memStore) addTask(projectID int64, title string, creatorID int64, assigneeID *int64) *domain.Task {
	task := &domain.Task{
		ID:             s.id(),
		ProjectID:      projectID,
		Title:          title,
		Status:         domain.TaskStatusTodo,
		AssignedUserID: assigneeID,
		CreatedBy:      creatorID,
		CreatedAt:      time.Now(),
	}
	s.tasks[task.ID] = task
	return task
}

func (s *memStore) membership(teamID, userID int64) *domain.Membership {
	for _, m := range s.memberships {
		if m.TeamID == teamID && m.UserID == userID {
			return m
		}
	}
	return nil
}

func (s *memStore) taskDetail(task *domain.Task) *domain.TaskDetail {
	detail := &domain.TaskDetail{Task: *task}
	if project, ok := s.projects[task.ProjectID]; ok {
		detail.ProjectName = project.Name
	}
	if task.AssignedUserID != nil {
		if user, ok := s.users[*task.AssignedUserID]; ok {
			detail.AssignedUsername = &user.Username
			detail.AssignedFirstName = &user.FirstName
			detail.AssignedLastName = &user.LastName
		}
	}
	return detail
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := r.s.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range r.s.users {
		if user.Username == identifier || user.Email == identifier {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTeamRepo struct{ s *memStore }

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	team.ID = r.s.id()
	team.CreatedAt = time.Now()
	cp := *team
	r.s.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	if team, ok := r.s.teams[id]; ok {
		cp := *team
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeamRepo) GetByName(_ context.Context, name string) (*domain.Team, error) {
	for _, team := range r.s.teams {
		if team.Name == name {
			cp := *team
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeamRepo) ListForUser(_ context.Context, userID int64) ([]domain.TeamWithRole, error) {
	var out []domain.TeamWithRole
	for _, m := range r.s.memberships {
		if m.UserID != userID {
			continue
		}
		if team, ok := r.s.teams[m.TeamID]; ok {
			out = append(out, domain.TeamWithRole{Team: *team, Role: m.Role})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeMembershipRepo struct{ s *memStore }

func (r *fakeMembershipRepo) Insert(_ context.Context, membership *domain.Membership) error {
	if r.s.membership(membership.TeamID, membership.UserID) != nil {
		return fmt.Errorf("duplicate membership %d/%d", membership.TeamID, membership.UserID)
	}
	membership.ID = r.s.id()
	membership.JoinedAt = time.Now()
	cp := *membership
	r.s.memberships = append(r.s.memberships, &cp)
	return nil
}

func (r *fakeMembershipRepo) Lookup(_ context.Context, teamID, userID int64) (*domain.Membership, error) {
	if m := r.s.membership(teamID, userID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMembershipRepo) GetDetail(_ context.Context, teamID, userID int64) (*domain.MemberDetail, error) {
	m := r.s.membership(teamID, userID)
	if m == nil {
		return nil, pgx.ErrNoRows
	}
	user, ok := r.s.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.MemberDetail{
		Membership: *m,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
	}, nil
}

func (r *fakeMembershipRepo) ListByTeam(_ context.Context, teamID int64) ([]domain.MemberDetail, error) {
	var out []domain.MemberDetail
	for _, m := range r.s.memberships {
		if m.TeamID != teamID {
			continue
		}
		if detail, err := r.GetDetail(context.Background(), teamID, m.UserID); err == nil {
			out = append(out, *detail)
		}
	}
	return out, nil
}

type fakeProjectRepo struct{ s *memStore }

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	project.ID = r.s.id()
	project.CreatedAt = time.Now()
	cp := *project
	r.s.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.s.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	project.UpdatedAt = &now
	cp := *project
	r.s.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.projects, id)
	for taskID, task := range r.s.tasks {
		if task.ProjectID == id {
			delete(r.s.tasks, taskID)
		}
	}
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	if project, ok := r.s.projects[id]; ok {
		cp := *project
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProjectRepo) GetByTeamAndName(_ context.Context, teamID int64, name string, excludeID int64) (*domain.Project, error) {
	for _, project := range r.s.projects {
		if project.TeamID == teamID && project.Name == name && project.ID != excludeID {
			cp := *project
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProjectRepo) ListByTeam(_ context.Context, teamID int64) ([]domain.Project, error) {
	var out []domain.Project
	for _, project := range r.s.projects {
		if project.TeamID == teamID {
			out = append(out, *project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeTaskRepo struct{ s *memStore }

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	task.ID = r.s.id()
	task.CreatedAt = time.Now()
	cp := *task
	r.s.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.s.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	task.UpdatedAt = &now
	cp := *task
	r.s.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	if task, ok := r.s.tasks[id]; ok {
		cp := *task
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTaskRepo) GetDetail(_ context.Context, id int64) (*domain.TaskDetail, error) {
	if task, ok := r.s.tasks[id]; ok {
		return r.s.taskDetail(task), nil
	}
	return nil, pgx.ErrNoRows
}

// ListVisible mirrors the task -> project -> membership join: a task is
// visible iff the caller holds a membership in the owning team.
func (r *fakeTaskRepo) ListVisible(_ context.Context, filter repository.TaskFilter) ([]domain.TaskDetail, error) {
	var out []domain.TaskDetail
	for _, task := range r.s.tasks {
		project, ok := r.s.projects[task.ProjectID]
		if !ok {
			continue
		}
		if r.s.membership(project.TeamID, filter.CallerID) == nil {
			continue
		}
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.AssignedUserID != nil {
			if task.AssignedUserID == nil || *task.AssignedUserID != *filter.AssignedUserID {
				continue
			}
		}
		out = append(out, *r.s.taskDetail(task))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) ListAssigned(_ context.Context, userID int64) ([]domain.TaskDetail, error) {
	var out []domain.TaskDetail
	for _, task := range r.s.tasks {
		if task.AssignedUserID != nil && *task.AssignedUserID == userID {
			out = append(out, *r.s.taskDetail(task))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out, nil
}

func (r *fakeTaskRepo) CountDistinctProjects(_ context.Context, userID int64) (int64, error) {
	seen := make(map[int64]struct{})
	for _, task := range r.s.tasks {
		if task.AssignedUserID != nil && *task.AssignedUserID == userID {
			seen[task.ProjectID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

// fakeTxRunner runs the function directly; the fakes have no transactions.
type fakeTxRunner struct{}

func (fakeTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

// fixture bundles a shared store with every service wired against it.
type fixture struct {
	store      *memStore
	dispatcher *captureDispatcher
	teams      *TeamService
	projects   *ProjectService
	tasks      *TaskService
}

func newFixture() *fixture {
	store := newMemStore()
	users := &fakeUserRepo{s: store}
	teams := &fakeTeamRepo{s: store}
	memberships := &fakeMembershipRepo{s: store}
	projects := &fakeProjectRepo{s: store}
	tasks := &fakeTaskRepo{s: store}

	access := authz.NewChecker(teams, memberships, users)
	dispatcher := &captureDispatcher{}
	tx := fakeTxRunner{}

	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		teams: NewTeamService(TeamDependencies{
			TeamRepo:       teams,
			MembershipRepo: memberships,
			UserRepo:       users,
			Access:         access,
			Tx:             tx,
			Dispatcher:     dispatcher,
		}),
		projects: NewProjectService(ProjectDependencies{
			ProjectRepo: projects,
			Access:      access,
			Tx:          tx,
			Dispatcher:  dispatcher,
		}),
		tasks: NewTaskService(TaskDependencies{
			TaskRepo:    tasks,
			ProjectRepo: projects,
			Access:      access,
			Tx:          tx,
			Dispatcher:  dispatcher,
		}),
	}
}
