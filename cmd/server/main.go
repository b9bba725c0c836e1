package main

import (
	"go.uber.org/fx"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/components/calendar"
	"github.com/schoolofsharks/trainingcal/internal/components/workout"
	"github.com/schoolofsharks/trainingcal/internal/events"
	"github.com/schoolofsharks/trainingcal/internal/server"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
	"github.com/schoolofsharks/trainingcal/internal/shared/database"
	"github.com/schoolofsharks/trainingcal/internal/shared/logging"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,

			activity.NewRepo,
			fx.Annotate(activity.NewService, fx.As(fx.Self()), fx.As(new(calendar.ActivityLister))),
			fx.Annotate(activity.NewRouter, fx.ResultTags(`name:"activityRouter"`)),

			assignment.NewRepo,
			fx.Annotate(assignment.NewService, fx.As(fx.Self()), fx.As(new(calendar.WorkoutLister))),
			fx.Annotate(assignment.NewRouter, fx.ResultTags(`name:"assignmentRouter"`)),

			workout.NewRepo,
			workout.NewService,
			fx.Annotate(workout.NewRouter, fx.ResultTags(`name:"workoutRouter"`)),

			fx.Annotate(
				calendar.NewCache,
				fx.As(fx.Self()),
				fx.As(new(assignment.Invalidator)),
				fx.As(new(events.Handler)),
			),
			calendar.NewService,
			fx.Annotate(calendar.NewRouter, fx.ResultTags(`name:"calendarRouter"`)),

			fx.Annotate(events.NewPublisher, fx.As(new(assignment.Publisher))),
		),
		fx.Invoke(server.Register, events.RegisterConsumer),
	).Run()
}
