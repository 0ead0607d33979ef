package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/dbx"
	"github.com/devhubhq/devhub/internal/server/models"
	activitiesrepo "github.com/devhubhq/devhub/internal/server/repositories/activities"
	attachmentsrepo "github.com/devhubhq/devhub/internal/server/repositories/attachments"
	projectsrepo "github.com/devhubhq/devhub/internal/server/repositories/projects"
	tasksrepo "github.com/devhubhq/devhub/internal/server/repositories/tasks"
	usersrepo "github.com/devhubhq/devhub/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	users map[string]*models.User // keyed by ID

	createErr error
	updateErr error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = "u-new"
	}
	f.users[u.ID] = u
	return u, nil
}

// The getters return copies, like the real repository scanning fresh rows:
// callers mutate results without touching stored state.
func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByPersistenceToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.PersistenceToken != "" && u.PersistenceToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsersRepo) UpdatePersistenceToken(_ context.Context, id, token string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PersistenceToken = token
	return nil
}

func (f *fakeUsersRepo) IncrementLoginCount(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LoginCount++
	return nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsersRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type fakeProjectsRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectsRepo(projects ...*models.Project) *fakeProjectsRepo {
	f := &fakeProjectsRepo{projects: map[string]*models.Project{}}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjectsRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	if p.ID == "" {
		p.ID = "p-new"
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectsRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjectsRepo) List(_ context.Context) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectsRepo) Update(_ context.Context, p *models.Project) error {
	if _, ok := f.projects[p.ID]; !ok {
		return common.ErrorNotFound
	}
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectsRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectsRepo) Count(_ context.Context) (int, error) {
	return len(f.projects), nil
}

type fakeTasksRepo struct {
	tasks map[string]*models.Task
}

func newFakeTasksRepo(tasks ...*models.Task) *fakeTasksRepo {
	f := &fakeTasksRepo{tasks: map[string]*models.Task{}}
	for _, task := range tasks {
		f.tasks[task.ID] = task
	}
	return f
}

func (f *fakeTasksRepo) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = "t-new"
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTasksRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	if task, ok := f.tasks[id]; ok {
		return task, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTasksRepo) List(_ context.Context, filter tasksrepo.Filter) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range f.tasks {
		if filter.ProjectID != "" && task.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTasksRepo) ListByAssignee(_ context.Context, userID string) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range f.tasks {
		if task.AssigneeID != nil && *task.AssigneeID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTasksRepo) Update(_ context.Context, task *models.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return common.ErrorNotFound
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTasksRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTasksRepo) Count(_ context.Context) (int, error) {
	return len(f.tasks), nil
}

func (f *fakeTasksRepo) CountByStatus(_ context.Context, status string) (int, error) {
	n := 0
	for _, task := range f.tasks {
		if task.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeActivitiesRepo struct {
	created []*models.Activity
	err     error
}

func (f *fakeActivitiesRepo) Create(_ context.Context, a *models.Activity) (*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeActivitiesRepo) List(_ context.Context, taskID string) ([]*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Activity
	for _, a := range f.created {
		if taskID == "" || a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAttachmentsRepo struct {
	attachments map[string]*models.Attachment
}

func newFakeAttachmentsRepo(attachments ...*models.Attachment) *fakeAttachmentsRepo {
	f := &fakeAttachmentsRepo{attachments: map[string]*models.Attachment{}}
	for _, a := range attachments {
		f.attachments[a.ID] = a
	}
	return f
}

func (f *fakeAttachmentsRepo) Create(_ context.Context, a *models.Attachment) (*models.Attachment, error) {
	if a.ID == "" {
		a.ID = "at-new"
	}
	f.attachments[a.ID] = a
	return a, nil
}

func (f *fakeAttachmentsRepo) GetByID(_ context.Context, id string) (*models.Attachment, error) {
	if a, ok := f.attachments[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAttachmentsRepo) ListByTask(_ context.Context, taskID string) ([]*models.Attachment, error) {
	var out []*models.Attachment
	for _, a := range f.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttachmentsRepo) MarkUploaded(_ context.Context, id string) error {
	a, ok := f.attachments[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.UploadStatus = models.AttachmentUploaded
	return nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	p  *fakeProjectsRepo
	t  *fakeTasksRepo
	ac *fakeActivitiesRepo
	at *fakeAttachmentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		p:  newFakeProjectsRepo(),
		t:  newFakeTasksRepo(),
		ac: &fakeActivitiesRepo{},
		at: newFakeAttachmentsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository { return m.p }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository       { return m.t }
func (m *fakeRepoManager) Activities(db dbx.DBTX) activitiesrepo.Repository {
	return m.ac
}
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.at
}
