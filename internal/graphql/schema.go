// Package graphql exposes the task management operations as a GraphQL
// schema served next to the REST surface.
package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/service"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// taskStatusEnum mirrors the domain task statuses.
var taskStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "TaskStatus",
	Values: graphql.EnumValueConfigMap{
		"PENDING":     &graphql.EnumValueConfig{Value: domain.TaskStatusPending},
		"IN_PROGRESS": &graphql.EnumValueConfig{Value: domain.TaskStatusInProgress},
		"COMPLETED":   &graphql.EnumValueConfig{Value: domain.TaskStatusCompleted},
	},
})

// taskPriorityEnum mirrors the domain task priorities.
var taskPriorityEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "TaskPriority",
	Values: graphql.EnumValueConfigMap{
		"LOW":    &graphql.EnumValueConfig{Value: domain.TaskPriorityLow},
		"MEDIUM": &graphql.EnumValueConfig{Value: domain.TaskPriorityMedium},
		"HIGH":   &graphql.EnumValueConfig{Value: domain.TaskPriorityHigh},
	},
})

// NewSchema builds the executable schema over the given services.
func NewSchema(taskListService service.TaskListService, taskService service.TaskService) (graphql.Schema, error) {
	taskType := newTaskType()
	taskListType := newTaskListType()
	taskListWithTasksType := newTaskListWithTasksType(taskListType, taskType)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"taskLists": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(taskListType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskListService.ListAll(p.Context)
				},
			},
			"taskList": &graphql.Field{
				Type: taskListType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskListService.Get(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"taskListWithTasks": &graphql.Field{
				Type: taskListWithTasksType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"status":   &graphql.ArgumentConfig{Type: taskStatusEnum},
					"priority": &graphql.ArgumentConfig{Type: taskPriorityEnum},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskListService.GetTasksWithCompletion(
						p.Context,
						int64(p.Args["id"].(int)),
						statusArg(p, "status"),
						priorityArg(p, "priority"),
					)
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(taskType)),
				Args: graphql.FieldConfigArgument{
					"taskListId": &graphql.ArgumentConfig{Type: graphql.Int},
					"status":     &graphql.ArgumentConfig{Type: taskStatusEnum},
					"priority":   &graphql.ArgumentConfig{Type: taskPriorityEnum},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filters := store.TaskFilters{
						TaskListID: intArg(p, "taskListId"),
						Status:     statusArg(p, "status"),
						Priority:   priorityArg(p, "priority"),
					}
					return taskService.ListByFilters(p.Context, filters)
				},
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskService.Get(p.Context, int64(p.Args["id"].(int)))
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTaskList": &graphql.Field{
				Type: taskListType,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"userId":      &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					taskList, err := domain.NewTaskList(p.Args["title"].(string))
					if err != nil {
						return nil, err
					}
					taskList.Description = stringArg(p, "description")
					taskList.UserID = intArg(p, "userId")
					return taskListService.Create(p.Context, taskList)
				},
			},
			"updateTaskList": &graphql.Field{
				Type: taskListType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"userId":      &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					patch := &domain.TaskListPatch{
						Title:       stringArg(p, "title"),
						Description: stringArg(p, "description"),
						UserID:      intArg(p, "userId"),
					}
					return taskListService.Update(p.Context, int64(p.Args["id"].(int)), patch)
				},
			},
			"deleteTaskList": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskListService.Delete(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"createTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"title":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"taskListId":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"description":    &graphql.ArgumentConfig{Type: graphql.String},
					"status":         &graphql.ArgumentConfig{Type: taskStatusEnum},
					"priority":       &graphql.ArgumentConfig{Type: taskPriorityEnum},
					"assignedUserId": &graphql.ArgumentConfig{Type: graphql.Int},
					"dueDate":        &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					task, err := domain.NewTask(
						p.Args["title"].(string),
						int64(p.Args["taskListId"].(int)),
					)
					if err != nil {
						return nil, err
					}
					task.Description = stringArg(p, "description")
					task.AssignedUserID = intArg(p, "assignedUserId")
					task.DueDate = timeArg(p, "dueDate")
					if status := statusArg(p, "status"); status != nil {
						task.Status = *status
					}
					if priority := priorityArg(p, "priority"); priority != nil {
						task.Priority = *priority
					}
					return taskService.Create(p.Context, task)
				},
			},
			"updateTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":          &graphql.ArgumentConfig{Type: graphql.String},
					"description":    &graphql.ArgumentConfig{Type: graphql.String},
					"taskListId":     &graphql.ArgumentConfig{Type: graphql.Int},
					"status":         &graphql.ArgumentConfig{Type: taskStatusEnum},
					"priority":       &graphql.ArgumentConfig{Type: taskPriorityEnum},
					"assignedUserId": &graphql.ArgumentConfig{Type: graphql.Int},
					"dueDate":        &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					patch := &domain.TaskPatch{
						Title:          stringArg(p, "title"),
						Description:    stringArg(p, "description"),
						TaskListID:     intArg(p, "taskListId"),
						Status:         statusArg(p, "status"),
						Priority:       priorityArg(p, "priority"),
						AssignedUserID: intArg(p, "assignedUserId"),
						DueDate:        timeArg(p, "dueDate"),
					}
					return taskService.Update(p.Context, int64(p.Args["id"].(int)), patch)
				},
			},
			"changeTaskStatus": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskStatusEnum)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, ok := p.Args["status"].(domain.TaskStatus)
					if !ok {
						return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStatus, p.Args["status"])
					}
					return taskService.ChangeStatus(p.Context, int64(p.Args["id"].(int)), status)
				},
			},
			"deleteTask": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return taskService.Delete(p.Context, int64(p.Args["id"].(int)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// newTaskType builds the Task object type. Optional fields resolve to null
// through explicit resolvers so pointer fields serialize cleanly.
func newTaskType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.ID, nil }),
			},
			"title": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.Title, nil }),
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: taskField(func(t *domain.Task) (interface{}, error) {
					if t.Description == nil {
						return nil, nil
					}
					return *t.Description, nil
				}),
			},
			"taskListId": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.TaskListID, nil }),
			},
			"status": &graphql.Field{
				Type:    graphql.NewNonNull(taskStatusEnum),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.Status, nil }),
			},
			"priority": &graphql.Field{
				Type:    graphql.NewNonNull(taskPriorityEnum),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.Priority, nil }),
			},
			"assignedUserId": &graphql.Field{
				Type: graphql.Int,
				Resolve: taskField(func(t *domain.Task) (interface{}, error) {
					if t.AssignedUserID == nil {
						return nil, nil
					}
					return *t.AssignedUserID, nil
				}),
			},
			"dueDate": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: taskField(func(t *domain.Task) (interface{}, error) {
					if t.DueDate == nil {
						return nil, nil
					}
					return *t.DueDate, nil
				}),
			},
			"isActive": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.IsActive, nil }),
			},
			"createdAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.CreatedAt, nil }),
			},
			"updatedAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskField(func(t *domain.Task) (interface{}, error) { return t.UpdatedAt, nil }),
			},
		},
	})
}

// newTaskListType builds the TaskList object type.
func newTaskListType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskList",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) { return l.ID, nil }),
			},
			"title": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) { return l.Title, nil }),
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) {
					if l.Description == nil {
						return nil, nil
					}
					return *l.Description, nil
				}),
			},
			"userId": &graphql.Field{
				Type: graphql.Int,
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) {
					if l.UserID == nil {
						return nil, nil
					}
					return *l.UserID, nil
				}),
			},
			"isActive": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) { return l.IsActive, nil }),
			},
			"createdAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) { return l.CreatedAt, nil }),
			},
			"updatedAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskListField(func(l *domain.TaskList) (interface{}, error) { return l.UpdatedAt, nil }),
			},
		},
	})
}

// newTaskListWithTasksType bundles a task list with its tasks and
// completion statistics.
func newTaskListWithTasksType(taskListType, taskType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskListWithTasks",
		Fields: graphql.Fields{
			"taskList": &graphql.Field{
				Type: graphql.NewNonNull(taskListType),
				Resolve: withTasksField(func(r *service.TaskListWithTasks) (interface{}, error) {
					return r.TaskList, nil
				}),
			},
			"tasks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(taskType))),
				Resolve: withTasksField(func(r *service.TaskListWithTasks) (interface{}, error) {
					if r.Tasks == nil {
						return []*domain.Task{}, nil
					}
					return r.Tasks, nil
				}),
			},
			"completionPercentage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: withTasksField(func(r *service.TaskListWithTasks) (interface{}, error) {
					return r.CompletionPercentage, nil
				}),
			},
			"totalTasks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: withTasksField(func(r *service.TaskListWithTasks) (interface{}, error) {
					return r.TotalTasks, nil
				}),
			},
			"completedTasks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: withTasksField(func(r *service.TaskListWithTasks) (interface{}, error) {
					return r.CompletedTasks, nil
				}),
			},
		},
	})
}

func taskField(fn func(*domain.Task) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		task, ok := p.Source.(*domain.Task)
		if !ok {
			return nil, fmt.Errorf("unexpected source type %T", p.Source)
		}
		return fn(task)
	}
}

func taskListField(fn func(*domain.TaskList) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		taskList, ok := p.Source.(*domain.TaskList)
		if !ok {
			return nil, fmt.Errorf("unexpected source type %T", p.Source)
		}
		return fn(taskList)
	}
}

func withTasksField(fn func(*service.TaskListWithTasks) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		result, ok := p.Source.(*service.TaskListWithTasks)
		if !ok {
			return nil, fmt.Errorf("unexpected source type %T", p.Source)
		}
		return fn(result)
	}
}

// intArg reads an optional Int argument as *int64.
func intArg(p graphql.ResolveParams, name string) *int64 {
	if raw, ok := p.Args[name].(int); ok {
		v := int64(raw)
		return &v
	}
	return nil
}

// stringArg reads an optional String argument as *string.
func stringArg(p graphql.ResolveParams, name string) *string {
	if raw, ok := p.Args[name].(string); ok {
		return &raw
	}
	return nil
}

// timeArg reads an optional DateTime argument as *time.Time.
func timeArg(p graphql.ResolveParams, name string) *time.Time {
	if raw, ok := p.Args[name].(time.Time); ok {
		return &raw
	}
	return nil
}

// statusArg reads an optional TaskStatus enum argument.
func statusArg(p graphql.ResolveParams, name string) *domain.TaskStatus {
	if raw, ok := p.Args[name].(domain.TaskStatus); ok {
		return &raw
	}
	return nil
}

// priorityArg reads an optional TaskPriority enum argument.
func priorityArg(p graphql.ResolveParams, name string) *domain.TaskPriority {
	if raw, ok := p.Args[name].(domain.TaskPriority); ok {
		return &raw
	}
	return nil
}
