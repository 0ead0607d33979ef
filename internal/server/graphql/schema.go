// Package graphql defines the query/mutation schema over the project and
// task domain. All fields require an authenticated caller; user management
// and the stats dashboard additionally require an administrator.
package graphql

import (
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/services"
	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema against the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).Name, nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).Email, nil
				},
			},
			"admin": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).Admin, nil
				},
			},
			"loginCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).LoginCount, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.User).CreatedAt, nil
				},
			},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Activity).ID, nil
				},
			},
			"action": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Activity).Action, nil
				},
			},
			// recordType/recordId keep the historical polymorphic shape;
			// only tasks ever had activities.
			"recordType": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "Task", nil
				},
			},
			"recordId": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Activity).TaskID, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Activity).CreatedAt, nil
				},
			},
		},
	})

	attachmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Attachment",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Attachment).ID, nil
				},
			},
			"fileName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Attachment).FileName, nil
				},
			},
			"uploadStatus": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Attachment).UploadStatus, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Attachment).CreatedAt, nil
				},
			},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Task).ID, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Task).Title, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Task).Description, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Task).Status, nil
				},
			},
			"dueAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					task := p.Source.(*models.Task)
					if task.DueAt == nil {
						return nil, nil
					}
					return *task.DueAt, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Task).CreatedAt, nil
				},
			},
			"assignee": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					task := p.Source.(*models.Task)
					if task.AssigneeID == nil {
						return nil, nil
					}
					return r.Users.Find(p.Context, *task.AssigneeID)
				},
			},
			"activities": &graphql.Field{
				Type: graphql.NewList(activityType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Activities.List(p.Context, p.Source.(*models.Task).ID)
				},
			},
			"attachments": &graphql.Field{
				Type: graphql.NewList(attachmentType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Attachments.ListByTask(p.Context, p.Source.(*models.Task).ID)
				},
			},
		},
	})

	projectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Project).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Project).Name, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Project).Description, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*models.Project).CreatedAt, nil
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(taskType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Tasks.List(p.Context, p.Source.(*models.Project).ID, "")
				},
			},
		},
	})

	// task.project closes the cycle, added after both types exist.
	taskType.AddFieldConfig("project", &graphql.Field{
		Type: projectType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return r.Projects.Find(p.Context, p.Source.(*models.Task).ProjectID)
		},
	})

	adminStatsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AdminStats",
		Fields: graphql.Fields{
			"totalUsers": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).TotalUsers, nil
				},
			},
			"totalProjects": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).TotalProjects, nil
				},
			},
			"totalTasks": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).TotalTasks, nil
				},
			},
			"pendingTasks": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).PendingTasks, nil
				},
			},
			"inProgressTasks": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).InProgressTasks, nil
				},
			},
			"completedTasks": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*services.AdminStats).CompletedTasks, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields(r, userType, projectType, taskType, activityType, adminStatsType),
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: mutationFields(r, userType, projectType, taskType, attachmentType),
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
