package graphql

import (
	"errors"

	"github.com/devhubhq/devhub/internal/server/services"
	"github.com/graphql-go/graphql"
)

// payload wraps a mutation result Rails-style: validation failures land in
// the errors list, everything else (auth, not-found, internal) surfaces as
// a GraphQL execution error.
func payload(key string, value any, err error) (map[string]any, error) {
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return map[string]any{key: nil, "errors": verr.Messages}, nil
		}
		return nil, err
	}
	return map[string]any{key: value, "errors": []string{}}, nil
}

func payloadType(name, key string, objectType graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			key: &graphql.Field{
				Type: objectType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(map[string]any)[key], nil
				},
			},
			"errors": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(map[string]any)["errors"], nil
				},
			},
		},
	})
}

func mutationFields(r *Resolver, userType, projectType, taskType, attachmentType *graphql.Object) graphql.Fields {
	projectPayload := payloadType("ProjectPayload", "project", projectType)
	taskPayload := payloadType("TaskPayload", "task", taskType)
	userPayload := payloadType("UserPayload", "user", userType)
	deletePayload := payloadType("DeletePayload", "id", graphql.ID)

	attachmentUploadPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "AttachmentUploadPayload",
		Fields: graphql.Fields{
			"attachment": &graphql.Field{
				Type: attachmentType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(map[string]any)["attachment"], nil
				},
			},
			"uploadUrl": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(map[string]any)["uploadUrl"], nil
				},
			},
			"errors": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(map[string]any)["errors"], nil
				},
			},
		},
	})
	attachmentPayload := payloadType("AttachmentPayload", "attachment", attachmentType)

	return graphql.Fields{
		"createProject": &graphql.Field{
			Type: projectPayload,
			Args: graphql.FieldConfigArgument{
				"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				description, _ := p.Args["description"].(string)
				project, err := r.Projects.Create(p.Context, p.Args["name"].(string), description)
				return payload("project", project, err)
			},
		},
		"updateProject": &graphql.Field{
			Type: projectPayload,
			Args: graphql.FieldConfigArgument{
				"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"name":        &graphql.ArgumentConfig{Type: graphql.String},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				project, err := r.Projects.Update(p.Context, p.Args["id"].(string), services.UpdateProjectParams{
					Name:        optString(p.Args, "name"),
					Description: optString(p.Args, "description"),
				})
				return payload("project", project, err)
			},
		},
		"deleteProject": &graphql.Field{
			Type: deletePayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				id := p.Args["id"].(string)
				return payload("id", id, r.Projects.Delete(p.Context, id))
			},
		},
		"createTask": &graphql.Field{
			Type: taskPayload,
			Args: graphql.FieldConfigArgument{
				"projectId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
				"status":      &graphql.ArgumentConfig{Type: graphql.String},
				"dueAt":       &graphql.ArgumentConfig{Type: graphql.DateTime},
				"assigneeId":  &graphql.ArgumentConfig{Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				description, _ := p.Args["description"].(string)
				status, _ := p.Args["status"].(string)
				task, err := r.Tasks.Create(p.Context, services.CreateTaskParams{
					ProjectID:   p.Args["projectId"].(string),
					Title:       p.Args["title"].(string),
					Description: description,
					Status:      status,
					DueAt:       optTime(p.Args, "dueAt"),
					AssigneeID:  optString(p.Args, "assigneeId"),
				})
				return payload("task", task, err)
			},
		},
		"updateTask": &graphql.Field{
			Type: taskPayload,
			Args: graphql.FieldConfigArgument{
				"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"title":       &graphql.ArgumentConfig{Type: graphql.String},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
				"status":      &graphql.ArgumentConfig{Type: graphql.String},
				"dueAt":       &graphql.ArgumentConfig{Type: graphql.DateTime},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				task, err := r.Tasks.Update(p.Context, p.Args["id"].(string), services.UpdateTaskParams{
					Title:       optString(p.Args, "title"),
					Description: optString(p.Args, "description"),
					Status:      optString(p.Args, "status"),
					DueAt:       optTime(p.Args, "dueAt"),
				})
				return payload("task", task, err)
			},
		},
		"deleteTask": &graphql.Field{
			Type: deletePayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				id := p.Args["id"].(string)
				return payload("id", id, r.Tasks.Delete(p.Context, id))
			},
		},
		"assignTaskToUser": &graphql.Field{
			Type: taskPayload,
			Args: graphql.FieldConfigArgument{
				"taskId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"userId": &graphql.ArgumentConfig{Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				task, err := r.Tasks.AssignToUser(p.Context, p.Args["taskId"].(string), optString(p.Args, "userId"))
				return payload("task", task, err)
			},
		},
		"createAttachmentUpload": &graphql.Field{
			Type: attachmentUploadPayload,
			Args: graphql.FieldConfigArgument{
				"taskId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"fileName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				attachment, url, err := r.Attachments.CreateUpload(p.Context, p.Args["taskId"].(string), p.Args["fileName"].(string))
				if err != nil {
					var verr *services.ValidationError
					if errors.As(err, &verr) {
						return map[string]any{"attachment": nil, "uploadUrl": nil, "errors": verr.Messages}, nil
					}
					return nil, err
				}
				return map[string]any{"attachment": attachment, "uploadUrl": url, "errors": []string{}}, nil
			},
		},
		"confirmAttachmentUpload": &graphql.Field{
			Type: attachmentPayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				attachment, err := r.Attachments.ConfirmUpload(p.Context, p.Args["id"].(string))
				return payload("attachment", attachment, err)
			},
		},
		"createUser": &graphql.Field{
			Type: userPayload,
			Args: graphql.FieldConfigArgument{
				"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"admin":    &graphql.ArgumentConfig{Type: graphql.Boolean},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				user, err := r.Users.Create(p.Context,
					p.Args["name"].(string), p.Args["email"].(string), p.Args["password"].(string),
					optBool(p.Args, "admin"))
				return payload("user", user, err)
			},
		},
		"updateUser": &graphql.Field{
			Type: userPayload,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"name":  &graphql.ArgumentConfig{Type: graphql.String},
				"email": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				user, err := r.Users.Update(p.Context, p.Args["id"].(string), services.UpdateUserParams{
					Name:  optString(p.Args, "name"),
					Email: optString(p.Args, "email"),
				})
				return payload("user", user, err)
			},
		},
		"deleteUser": &graphql.Field{
			Type: deletePayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				actor, err := RequireAdmin(p.Context)
				if err != nil {
					return nil, err
				}
				id := p.Args["id"].(string)
				return payload("id", id, r.Users.Delete(p.Context, id, actor.ID))
			},
		},
		"promoteUser": &graphql.Field{
			Type: userPayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				user, err := r.Users.Promote(p.Context, p.Args["id"].(string))
				return payload("user", user, err)
			},
		},
		"demoteUser": &graphql.Field{
			Type: userPayload,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				actor, err := RequireAdmin(p.Context)
				if err != nil {
					return nil, err
				}
				user, err := r.Users.Demote(p.Context, p.Args["id"].(string), actor.ID)
				return payload("user", user, err)
			},
		},
	}
}
