package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhttp "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/middleware"
	authsvc "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/token"
	projecthttp "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/http"
	projectsvc "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskhttp "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/http"
	tasksvc "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/service"
)

type V1Deps struct {
	Store    storage.Store
	Issuer   authsvc.Issuer
	Verifier token.Verifier
	Log      *zap.Logger
	// AuthOptions tune the auth service; tests lower the bcrypt cost.
	AuthOptions []authsvc.Option
}

// RegisterV1 mounts the auth, project and task routes on r. Everything but
// register and login requires a bearer token.
func RegisterV1(r gin.IRouter, dep V1Deps) {
	authService := authsvc.NewAuthService(dep.Store, dep.Issuer, dep.Verifier, dep.Log, dep.AuthOptions...)
	requireUser := authmw.RequireUser(authService, dep.Log)

	authhttp.New(authService, dep.Log).Register(r.Group("/auth"), requireUser)

	projectHandler := projecthttp.New(projectsvc.NewProjectService(dep.Store, dep.Store, dep.Log), dep.Log)
	taskHandler := taskhttp.New(tasksvc.NewTaskService(dep.Store, dep.Store, dep.Log), dep.Log)

	projectsGroup := r.Group("/projects", requireUser)
	projectHandler.Register(projectsGroup)
	taskHandler.RegisterProjectTasks(projectsGroup)

	taskHandler.RegisterOverdue(r.Group("/tasks", requireUser))
}
