// Package kanban assembles the board/column/task domain: repositories,
// services and REST controllers, registered on the application container.
package kanban

import (
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence"
	"github.com/taskwall/taskwall/modules/kanban/presentation/controllers"
	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/txn"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "kanban"
}

func (m *Module) Register(app *application.Application, runner txn.Runner) {
	boardService := services.NewBoardService(persistence.NewBoardRepository(), runner, app.Realtime())
	columnService := services.NewColumnService(persistence.NewColumnRepository(), runner, app.Realtime())
	taskService := services.NewTaskService(persistence.NewTaskRepository(), runner, app.Realtime(), app.EventBus())
	tagService := services.NewTagService(persistence.NewTagRepository(), app.Realtime())
	priorityService := services.NewPriorityService(persistence.NewPriorityRepository())

	notificationService := services.NewNotificationService(persistence.NewNotificationRepository(), app.Realtime())
	notificationService.Register(app.EventBus())

	app.RegisterControllers(
		controllers.NewBoardsController(boardService),
		controllers.NewColumnsController(columnService),
		controllers.NewTasksController(taskService, columnService, tagService),
		controllers.NewTagsController(tagService),
		controllers.NewPrioritiesController(priorityService),
		controllers.NewNotificationsController(notificationService),
	)
}
