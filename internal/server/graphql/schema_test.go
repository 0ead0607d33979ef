package graphql

import (
	"context"
	"errors"
	"testing"

	"github.com/devhubhq/devhub/internal/server/httpapi"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/services"
	"github.com/graphql-go/graphql"
)

// --- fakes ---

type fakeUserOps struct {
	list []*models.User
}

func (f *fakeUserOps) List(context.Context) ([]*models.User, error) { return f.list, nil }
func (f *fakeUserOps) Find(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.list {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("User not found")
}
func (f *fakeUserOps) Create(_ context.Context, name, email, _ string, admin bool) (*models.User, error) {
	return &models.User{ID: "u-new", Name: name, Email: email, Admin: admin}, nil
}
func (f *fakeUserOps) Update(_ context.Context, id string, _ services.UpdateUserParams) (*models.User, error) {
	return f.Find(context.Background(), id)
}
func (f *fakeUserOps) Delete(_ context.Context, id, actorID string) error {
	if id == actorID {
		return errors.New("You cannot delete your own account")
	}
	return nil
}
func (f *fakeUserOps) Promote(_ context.Context, id string) (*models.User, error) {
	return f.Find(context.Background(), id)
}
func (f *fakeUserOps) Demote(_ context.Context, id, actorID string) (*models.User, error) {
	if id == actorID {
		return nil, errors.New("You cannot demote yourself")
	}
	return f.Find(context.Background(), id)
}

type fakeProjectOps struct {
	list []*models.Project
}

func (f *fakeProjectOps) List(context.Context) ([]*models.Project, error) { return f.list, nil }
func (f *fakeProjectOps) Find(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.list {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("Project not found")
}
func (f *fakeProjectOps) Create(_ context.Context, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, services.NewValidationError("Name can't be blank")
	}
	return &models.Project{ID: "p-new", Name: name, Description: description}, nil
}
func (f *fakeProjectOps) Update(_ context.Context, id string, _ services.UpdateProjectParams) (*models.Project, error) {
	return f.Find(context.Background(), id)
}
func (f *fakeProjectOps) Delete(context.Context, string) error { return nil }

type fakeTaskOps struct {
	list []*models.Task
}

func (f *fakeTaskOps) List(context.Context, string, string) ([]*models.Task, error) {
	return f.list, nil
}
func (f *fakeTaskOps) Find(_ context.Context, id string) (*models.Task, error) {
	for _, task := range f.list {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, errors.New("Task not found")
}
func (f *fakeTaskOps) Create(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	return &models.Task{ID: "t-new", ProjectID: params.ProjectID, Title: params.Title, Status: models.TaskStatusPending}, nil
}
func (f *fakeTaskOps) Update(_ context.Context, id string, _ services.UpdateTaskParams) (*models.Task, error) {
	return f.Find(context.Background(), id)
}
func (f *fakeTaskOps) AssignToUser(_ context.Context, id string, _ *string) (*models.Task, error) {
	return f.Find(context.Background(), id)
}
func (f *fakeTaskOps) Delete(context.Context, string) error { return nil }
func (f *fakeTaskOps) ListByAssignee(context.Context, string) ([]*models.Task, error) {
	return f.list, nil
}

type fakeActivityOps struct{}

func (f *fakeActivityOps) List(context.Context, string) ([]*models.Activity, error) {
	return nil, nil
}

type fakeStatsOps struct{}

func (f *fakeStatsOps) AdminStats(context.Context) (*services.AdminStats, error) {
	return &services.AdminStats{TotalUsers: 3, TotalTasks: 5, CompletedTasks: 2}, nil
}

type fakeAttachmentOps struct{}

func (f *fakeAttachmentOps) CreateUpload(context.Context, string, string) (*models.Attachment, string, error) {
	return &models.Attachment{ID: "at-new", UploadStatus: models.AttachmentPending}, "http://signed.example/put", nil
}
func (f *fakeAttachmentOps) ConfirmUpload(context.Context, string) (*models.Attachment, error) {
	return &models.Attachment{ID: "at-new", UploadStatus: models.AttachmentUploaded}, nil
}
func (f *fakeAttachmentOps) DownloadURL(context.Context, string) (string, error) {
	return "http://signed.example/get", nil
}
func (f *fakeAttachmentOps) ListByTask(context.Context, string) ([]*models.Attachment, error) {
	return nil, nil
}

// --- helpers ---

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := NewSchema(&Resolver{
		Users: &fakeUserOps{list: []*models.User{
			{ID: "u-1", Name: "Alice", Email: "alice@example.com", Admin: true},
			{ID: "u-2", Name: "Bob", Email: "bob@example.com"},
		}},
		Projects:    &fakeProjectOps{list: []*models.Project{{ID: "p-1", Name: "Website"}}},
		Tasks:       &fakeTaskOps{list: []*models.Task{{ID: "t-1", ProjectID: "p-1", Title: "X", Status: models.TaskStatusPending}}},
		Activities:  &fakeActivityOps{},
		Stats:       &fakeStatsOps{},
		Attachments: &fakeAttachmentOps{},
	})
	if err != nil {
		t.Fatalf("NewSchema error: %v", err)
	}
	return schema
}

func execute(t *testing.T, schema graphql.Schema, query string, user *models.User) *graphql.Result {
	t.Helper()
	ctx := context.Background()
	if user != nil {
		ctx = httpapi.WithUser(ctx, user)
	}
	return graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: ctx})
}

func firstErrorMessage(r *graphql.Result) string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// --- tests ---

func TestQueries_RequireAuthentication(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ projects { id name } }`, nil)
	if got := firstErrorMessage(result); got != "Authentication required" {
		t.Fatalf("expected Authentication required, got %q", got)
	}
}

func TestAdminQueries_UnifiedError(t *testing.T) {
	schema := testSchema(t)

	anon := execute(t, schema, `{ users { id } }`, nil)
	nonAdmin := execute(t, schema, `{ users { id } }`, &models.User{ID: "u-2"})

	if got := firstErrorMessage(anon); got != "Admin access required" {
		t.Errorf("anonymous: expected Admin access required, got %q", got)
	}
	if got := firstErrorMessage(nonAdmin); got != "Admin access required" {
		t.Errorf("non-admin: expected Admin access required, got %q", got)
	}
	if firstErrorMessage(anon) != firstErrorMessage(nonAdmin) {
		t.Error("anonymous and non-admin must get the identical error")
	}
}

func TestAdminQueries_AllowAdmin(t *testing.T) {
	schema := testSchema(t)
	admin := &models.User{ID: "u-1", Admin: true}

	result := execute(t, schema, `{ users { id email } }`, admin)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	users := result.Data.(map[string]any)["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	result = execute(t, schema, `{ adminStats { totalUsers completedTasks } }`, admin)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	stats := result.Data.(map[string]any)["adminStats"].(map[string]any)
	if stats["totalUsers"] != 3 || stats["completedTasks"] != 2 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestProjectsQuery_Authenticated(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ projects { id name } }`, &models.User{ID: "u-2"})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	projects := result.Data.(map[string]any)["projects"].([]any)
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
}

func TestCreateProject_ValidationGoesToPayloadErrors(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema,
		`mutation { createProject(name: "") { project { id } errors } }`,
		&models.User{ID: "u-2"})
	if len(result.Errors) != 0 {
		t.Fatalf("validation must not be a GraphQL error: %v", result.Errors)
	}
	data := result.Data.(map[string]any)["createProject"].(map[string]any)
	if data["project"] != nil {
		t.Error("expected nil project")
	}
	errs := data["errors"].([]any)
	if len(errs) != 1 || errs[0] != "Name can't be blank" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestCreateProject_Success(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema,
		`mutation { createProject(name: "Mobile app") { project { id name } errors } }`,
		&models.User{ID: "u-2"})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data := result.Data.(map[string]any)["createProject"].(map[string]any)
	project := data["project"].(map[string]any)
	if project["name"] != "Mobile app" {
		t.Fatalf("unexpected project: %v", project)
	}
}

func TestUserMutations_AdminOnly(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema,
		`mutation { promoteUser(id: "u-2") { user { id admin } errors } }`,
		&models.User{ID: "u-2"})
	if got := firstErrorMessage(result); got != "Admin access required" {
		t.Fatalf("expected Admin access required, got %q", got)
	}
}

func TestDeleteUser_SelfGuardSurfacesAsError(t *testing.T) {
	schema := testSchema(t)
	admin := &models.User{ID: "u-1", Admin: true}

	result := execute(t, schema,
		`mutation { deleteUser(id: "u-1") { id errors } }`, admin)
	if got := firstErrorMessage(result); got != "You cannot delete your own account" {
		t.Fatalf("expected self-delete error, got %q", got)
	}
}

func TestMyTasks_UsesCurrentUser(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ myTasks { id title } }`, &models.User{ID: "u-2"})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestActivityRecordShape(t *testing.T) {
	schema, err := NewSchema(&Resolver{
		Users:    &fakeUserOps{},
		Projects: &fakeProjectOps{},
		Tasks:    &fakeTaskOps{},
		Activities: &fakeActivityOpsWithData{activities: []*models.Activity{
			{ID: "a-1", TaskID: "t-1", Action: "Task status changed from Pending to Completed"},
		}},
		Stats:       &fakeStatsOps{},
		Attachments: &fakeAttachmentOps{},
	})
	if err != nil {
		t.Fatalf("NewSchema error: %v", err)
	}

	result := execute(t, schema,
		`{ activities { id action recordType recordId } }`, &models.User{ID: "u-2"})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	activities := result.Data.(map[string]any)["activities"].([]any)
	a := activities[0].(map[string]any)
	if a["recordType"] != "Task" || a["recordId"] != "t-1" {
		t.Fatalf("unexpected activity shape: %v", a)
	}
}

type fakeActivityOpsWithData struct {
	activities []*models.Activity
}

func (f *fakeActivityOpsWithData) List(context.Context, string) ([]*models.Activity, error) {
	return f.activities, nil
}
