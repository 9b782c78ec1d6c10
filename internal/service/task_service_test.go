package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/events"
)

func TestCreateTaskForcesTodoStatus(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice")
	team := f.store.addTeam("platform", alice.ID)
	project := f.store.addProject(team.ID, "api", alice.ID)

	task, err := f.tasks.CreateTask(context.Background(), TaskCreateInput{
		ProjectID: project.ID,
		Title:     "write docs",
	}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, "api", task.ProjectName)
	assert.Contains(t, f.dispatcher.types(), events.EventTaskCreated)
}

func TestCreateTaskAssigneeMustBeTeamMember(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice")
	outsider := f.store.addUser("mallory")
	team := f.store.addTeam("platform", alice.ID)
	project := f.store.addProject(team.ID, "api", alice.ID)

	_, err := f.tasks.CreateTask(context.Background(), TaskCreateInput{
		ProjectID:      project.ID,
		Title:          "write docs",
		AssignedUserID: &outsider.ID,
	}, alice.ID)
	domainErr := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, "user is not a member of this team", domainErr.Message)

	missing := int64(9999)
	_, err = f.tasks.CreateTask(context.Background(), TaskCreateInput{
		ProjectID:      project.ID,
		Title:          "write docs",
		AssignedUserID: &missing,
	}, alice.ID)
	requireDomainError(t, err, http.StatusNotFound)
}

func TestCreateTaskRequiresProjectMembership(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice")
	outsider := f.store.addUser("mallory")
	team := f.store.addTeam("platform", alice.ID)
	project := f.store.addProject(team.ID, "api", alice.ID)

	_, err := f.tasks.CreateTask(context.Background(), TaskCreateInput{
		ProjectID: project.ID,
		Title:     "sneak in",
	}, outsider.ID)
	requireDomainError(t, err, http.StatusForbidden)

	_, err = f.tasks.CreateTask(context.Background(), TaskCreateInput{
		ProjectID: 9999,
		Title:     "nowhere",
	}, alice.ID)
	requireDomainError(t, err, http.StatusNotFound)
}

func TestUpdateTaskAssigneeOnly(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	assignee := f.store.addUser("bob")
	team := f.store.addTeam("platform", owner.ID)
	f.store.addMembership(team.ID, assignee.ID, domain.TeamRoleMember)
	project := f.store.addProject(team.ID, "api", owner.ID)
	task := f.store.addTask(project.ID, "write docs", owner.ID, &assignee.ID)

	newTitle := "write better docs"

	// neither team role nor task authorship grants content edits
	_, err := f.tasks.UpdateTask(context.Background(), task.ID, TaskPatch{Title: &newTitle}, owner.ID)
	requireDomainError(t, err, http.StatusForbidden)

	updated, err := f.tasks.UpdateTask(context.Background(), task.ID, TaskPatch{Title: &newTitle}, assignee.ID)
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
}

func TestUpdateTaskStatus(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	assignee := f.store.addUser("bob")
	team := f.store.addTeam("platform", owner.ID)
	f.store.addMembership(team.ID, assignee.ID, domain.TeamRoleMember)
	project := f.store.addProject(team.ID, "api", owner.ID)
	task := f.store.addTask(project.ID, "write docs", owner.ID, &assignee.ID)

	_, err := f.tasks.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatus("shipped"), assignee.ID)
	requireDomainError(t, err, http.StatusBadRequest)

	_, err = f.tasks.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusDone, owner.ID)
	requireDomainError(t, err, http.StatusForbidden)

	updated, err := f.tasks.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusInProgress, assignee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Contains(t, f.dispatcher.types(), events.EventTaskStatusChanged)
}

func TestUpdateUnassignedTaskForbiddenForEveryone(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	team := f.store.addTeam("platform", owner.ID)
	project := f.store.addProject(team.ID, "api", owner.ID)
	task := f.store.addTask(project.ID, "write docs", owner.ID, nil)

	_, err := f.tasks.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusDone, owner.ID)
	requireDomainError(t, err, http.StatusForbidden)
}

func TestAssignTaskPermissions(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	projectCreator := f.store.addUser("bob")
	plainMember := f.store.addUser("carol")
	team := f.store.addTeam("platform", owner.ID)
	f.store.addMembership(team.ID, projectCreator.ID, domain.TeamRoleMember)
	f.store.addMembership(team.ID, plainMember.ID, domain.TeamRoleMember)
	project := f.store.addProject(team.ID, "api", projectCreator.ID)
	task := f.store.addTask(project.ID, "write docs", projectCreator.ID, nil)

	_, err := f.tasks.AssignTask(context.Background(), task.ID, &plainMember.ID, plainMember.ID)
	requireDomainError(t, err, http.StatusForbidden)

	// project creator may assign even as a plain team member
	updated, err := f.tasks.AssignTask(context.Background(), task.ID, &plainMember.ID, projectCreator.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedUserID)
	assert.Equal(t, plainMember.ID, *updated.AssignedUserID)

	// team owner may reassign, and clearing always works for them
	updated, err = f.tasks.AssignTask(context.Background(), task.ID, nil, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedUserID)
	assert.Contains(t, f.dispatcher.types(), events.EventTaskAssigned)
}

func TestAssignTaskRejectsNonMemberAssignee(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	outsider := f.store.addUser("mallory")
	team := f.store.addTeam("platform", owner.ID)
	project := f.store.addProject(team.ID, "api", owner.ID)
	task := f.store.addTask(project.ID, "write docs", owner.ID, nil)

	_, err := f.tasks.AssignTask(context.Background(), task.ID, &outsider.ID, owner.ID)
	requireDomainError(t, err, http.StatusBadRequest)
}

func TestDeleteTaskPermissions(t *testing.T) {
	f := newFixture()
	owner := f.store.addUser("alice")
	taskCreator := f.store.addUser("bob")
	assignee := f.store.addUser("carol")
	team := f.store.addTeam("platform", owner.ID)
	f.store.addMembership(team.ID, taskCreator.ID, domain.TeamRoleMember)
	f.store.addMembership(team.ID, assignee.ID, domain.TeamRoleMember)
	project := f.store.addProject(team.ID, "api", owner.ID)
	task := f.store.addTask(project.ID, "write docs", taskCreator.ID, &assignee.ID)

	// being the assignee grants updates, not deletion
	err := f.tasks.DeleteTask(context.Background(), task.ID, assignee.ID)
	requireDomainError(t, err, http.StatusForbidden)

	err = f.tasks.DeleteTask(context.Background(), task.ID, taskCreator.ID)
	require.NoError(t, err)

	_, ok := f.store.tasks[task.ID]
	assert.False(t, ok)
}

func TestListTasksJoinVisibility(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice")
	bob := f.store.addUser("bob")
	teamA := f.store.addTeam("platform", alice.ID)
	teamB := f.store.addTeam("design", bob.ID)
	projectA := f.store.addProject(teamA.ID, "api", alice.ID)
	projectB := f.store.addProject(teamB.ID, "brand", bob.ID)
	visible := f.store.addTask(projectA.ID, "mine", alice.ID, nil)
	f.store.addTask(projectB.ID, "theirs", bob.ID, nil)

	tasks, err := f.tasks.ListTasks(context.Background(), alice.ID, TaskListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, visible.ID, tasks[0].ID)

	// filtering by a project in a foreign team is refused up front
	_, err = f.tasks.ListTasks(context.Background(), alice.ID, TaskListFilter{ProjectID: &projectB.ID})
	requireDomainError(t, err, http.StatusForbidden)

	badStatus := domain.TaskStatus("shipped")
	_, err = f.tasks.ListTasks(context.Background(), alice.ID, TaskListFilter{Status: &badStatus})
	requireDomainError(t, err, http.StatusBadRequest)
}

func TestMyTasksSummary(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice")
	team := f.store.addTeam("platform", alice.ID)
	projectA := f.store.addProject(team.ID, "api", alice.ID)
	projectB := f.store.addProject(team.ID, "web", alice.ID)

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	first := f.store.addTask(projectA.ID, "due soon", alice.ID, &alice.ID)
	first.DueDate = &soon
	second := f.store.addTask(projectB.ID, "due later", alice.ID, &alice.ID)
	second.DueDate = &later
	second.Status = domain.TaskStatusInProgress
	noDue := f.store.addTask(projectA.ID, "no due date", alice.ID, &alice.ID)
	f.store.addTask(projectA.ID, "unassigned", alice.ID, nil)

	summary, err := f.tasks.GetMyTasksSummary(context.Background(), alice.ID)
	require.NoError(t, err)

	require.Len(t, summary.Tasks, 3)
	assert.Equal(t, first.ID, summary.Tasks[0].ID)
	assert.Equal(t, second.ID, summary.Tasks[1].ID)
	assert.Equal(t, noDue.ID, summary.Tasks[2].ID, "tasks without a due date sort last")

	assert.Equal(t, map[domain.TaskStatus]int{
		domain.TaskStatusTodo:       2,
		domain.TaskStatusInProgress: 1,
		domain.TaskStatusDone:       0,
	}, summary.StatusCounts, "every status appears, zeroes included")

	assert.Equal(t, int64(2), summary.TotalProjects)
}
