package graphql

import (
	"github.com/graphql-go/graphql"
)

func queryFields(r *Resolver, userType, projectType, taskType, activityType, adminStatsType *graphql.Object) graphql.Fields {
	return graphql.Fields{
		"users": &graphql.Field{
			Type: graphql.NewList(userType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				return r.Users.List(p.Context)
			},
		},
		"user": &graphql.Field{
			Type: userType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				return r.Users.Find(p.Context, p.Args["id"].(string))
			},
		},
		"adminStats": &graphql.Field{
			Type: adminStatsType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAdmin(p.Context); err != nil {
					return nil, err
				}
				return r.Stats.AdminStats(p.Context)
			},
		},
		"projects": &graphql.Field{
			Type: graphql.NewList(projectType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				return r.Projects.List(p.Context)
			},
		},
		"project": &graphql.Field{
			Type: projectType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				return r.Projects.Find(p.Context, p.Args["id"].(string))
			},
		},
		"tasks": &graphql.Field{
			Type: graphql.NewList(taskType),
			Args: graphql.FieldConfigArgument{
				"projectId": &graphql.ArgumentConfig{Type: graphql.ID},
				"status":    &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				projectID, _ := p.Args["projectId"].(string)
				status, _ := p.Args["status"].(string)
				return r.Tasks.List(p.Context, projectID, status)
			},
		},
		"task": &graphql.Field{
			Type: taskType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				return r.Tasks.Find(p.Context, p.Args["id"].(string))
			},
		},
		"myTasks": &graphql.Field{
			Type: graphql.NewList(taskType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				user, err := RequireAuthenticated(p.Context)
				if err != nil {
					return nil, err
				}
				return r.Tasks.ListByAssignee(p.Context, user.ID)
			},
		},
		"activities": &graphql.Field{
			Type: graphql.NewList(activityType),
			Args: graphql.FieldConfigArgument{
				"taskId": &graphql.ArgumentConfig{Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				taskID, _ := p.Args["taskId"].(string)
				return r.Activities.List(p.Context, taskID)
			},
		},
		"attachmentDownloadUrl": &graphql.Field{
			Type: graphql.String,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if _, err := RequireAuthenticated(p.Context); err != nil {
					return nil, err
				}
				return r.Attachments.DownloadURL(p.Context, p.Args["id"].(string))
			},
		},
	}
}
