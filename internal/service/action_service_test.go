package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/chaodefabrica/apontamento/internal/database"
	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/service"
)

// ActionServiceTestSuite is the test suite for ActionService.
type ActionServiceTestSuite struct {
	suite.Suite
	pool          *pgxpool.Pool
	actionService *service.ActionService
	actionRepo    *repository.ActionRepository
	snapshotRepo  *repository.SnapshotRepository

	// Test fixtures
	workOrderID int64
	itemID      int64
	taskID      int64
	operator1   string
	operator2   string
}

// SetupSuite runs once before all tests.
func (s *ActionServiceTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()

	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err, "failed to connect to database")

	s.pool = db.Pool()

	err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err, "failed to run migrations")

	s.actionRepo = repository.NewActionRepository(s.pool)
	s.snapshotRepo = repository.NewSnapshotRepository(s.pool)

	s.actionService = service.NewActionService(
		s.pool,
		s.actionRepo,
		s.snapshotRepo,
		repository.NewWorkOrderRepository(s.pool),
		repository.NewCatalogRepository(s.pool),
	)
}

// SetupTest runs before each test.
func (s *ActionServiceTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, `TRUNCATE operators, items, tasks, item_tasks, clients,
		work_orders, customer_orders, production_actions, work_order_status,
		kanban_lists, ghost_cards CASCADE`)
	s.Require().NoError(err, "failed to truncate tables")

	s.operator1 = "1001"
	s.operator2 = "1002"
	s.createOperator("João", s.operator1, true)
	s.createOperator("Maria", s.operator2, true)

	err = s.pool.QueryRow(ctx,
		`INSERT INTO items (name, code) VALUES ('Flange', 'FL-10') RETURNING id`,
	).Scan(&s.itemID)
	s.Require().NoError(err)

	err = s.pool.QueryRow(ctx,
		`INSERT INTO tasks (name, category) VALUES ('Torneamento', 'Torno CNC') RETURNING id`,
	).Scan(&s.taskID)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx,
		`INSERT INTO item_tasks (item_id, task_id, setup_seconds, piece_seconds) VALUES ($1, $2, 500, 30)`,
		s.itemID, s.taskID)
	s.Require().NoError(err)

	err = s.pool.QueryRow(ctx,
		`INSERT INTO work_orders (number, status) VALUES ('OS-100', 'Mazak') RETURNING id`,
	).Scan(&s.workOrderID)
	s.Require().NoError(err)
}

func (s *ActionServiceTestSuite) createOperator(name, code string, active bool) {
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO operators (name, code, is_active) VALUES ($1, $2, $3)`,
		name, code, active)
	s.Require().NoError(err)
}

func (s *ActionServiceTestSuite) register(kind domain.ActionKind, code string, quantity *int64) (*service.RegisterActionResult, error) {
	return s.actionService.RegisterAction(context.Background(), service.RegisterActionInput{
		WorkOrderID:  s.workOrderID,
		ItemID:       s.itemID,
		TaskID:       s.taskID,
		OperatorCode: code,
		Kind:         kind,
		Quantity:     quantity,
	})
}

func (s *ActionServiceTestSuite) snapshot() *domain.StatusSnapshot {
	snap, err := s.snapshotRepo.GetByWorkOrder(context.Background(), s.workOrderID)
	s.Require().NoError(err)
	s.Require().NotNil(snap)
	return snap
}

func (s *ActionServiceTestSuite) TestSetupStart() {
	result, err := s.register(domain.ActionSetupStart, s.operator1, nil)
	s.Require().NoError(err)

	s.Equal(domain.StateSetup, result.State)
	s.NotZero(result.Action.ID)
	s.Nil(result.Action.EndedAt, "setup_start opens a phase")
	s.Equal("Mazak", result.Action.KanbanList)

	snap := s.snapshot()
	s.Equal(domain.StateSetup, snap.State)
	s.NotNil(snap.PhaseStartedAt)
}

func (s *ActionServiceTestSuite) TestSetupStartTwiceIsRejected() {
	_, err := s.register(domain.ActionSetupStart, s.operator1, nil)
	s.Require().NoError(err)

	_, err = s.register(domain.ActionSetupStart, s.operator1, nil)
	s.ErrorIs(err, domain.ErrPhaseAlreadyOpen)
}

func (s *ActionServiceTestSuite) TestSetupEndSealsThePhase() {
	_, err := s.register(domain.ActionSetupStart, s.operator1, nil)
	s.Require().NoError(err)

	result, err := s.register(domain.ActionSetupEnd, s.operator1, nil)
	s.Require().NoError(err)
	s.Equal(domain.StateAwaiting, result.State)
	s.NotNil(result.Action.EndedAt)
	s.NotNil(result.Action.ElapsedSeconds)

	// The opening row is now closed with a sealed elapsed value.
	actions, err := s.actionRepo.ListByWorkOrder(context.Background(), s.workOrderID)
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	for _, a := range actions {
		s.NotNil(a.EndedAt)
		s.NotNil(a.ElapsedSeconds)
		s.GreaterOrEqual(*a.ElapsedSeconds, int64(0))
	}
}

func (s *ActionServiceTestSuite) TestSetupEndWithoutOpenSetup() {
	_, err := s.register(domain.ActionSetupEnd, s.operator1, nil)
	s.ErrorIs(err, domain.ErrNoOpenPhase)
}

func (s *ActionServiceTestSuite) TestSetupEndByAnotherOperator() {
	_, err := s.register(domain.ActionSetupStart, s.operator1, nil)
	s.Require().NoError(err)

	_, err = s.register(domain.ActionSetupEnd, s.operator2, nil)
	s.ErrorIs(err, domain.ErrNotPhaseOwner)
}

func (s *ActionServiceTestSuite) TestProductionStartDuringSetup() {
	_, err := s.register(domain.ActionSetupStart, s.operator1, nil)
	s.Require().NoError(err)

	_, err = s.register(domain.ActionProductionStart, s.operator1, nil)
	s.ErrorIs(err, domain.ErrSetupNotFinished)
}

func (s *ActionServiceTestSuite) TestPauseAndResume() {
	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	result, err := s.register(domain.ActionPause, s.operator1, nil)
	s.Require().NoError(err)
	s.Equal(domain.StatePaused, result.State)

	// Resuming closes the pause and opens a fresh production run.
	result, err = s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)
	s.Equal(domain.StateProducing, result.State)

	snap := s.snapshot()
	s.Equal(domain.StateProducing, snap.State)
	s.Nil(snap.PauseReason)
}

func (s *ActionServiceTestSuite) TestPauseWithoutProduction() {
	_, err := s.register(domain.ActionPause, s.operator1, nil)
	s.ErrorIs(err, domain.ErrNoOpenPhase)
}

func (s *ActionServiceTestSuite) TestStopReturnsToAwaiting() {
	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	result, err := s.register(domain.ActionStop, s.operator1, nil)
	s.Require().NoError(err)
	s.Equal(domain.StateAwaiting, result.State)
	s.NotNil(result.Action.EndedAt, "stop records a closed row")

	snap := s.snapshot()
	s.Equal(domain.StateAwaiting, snap.State)
}

func (s *ActionServiceTestSuite) TestProductionEndRequiresQuantity() {
	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	_, err = s.register(domain.ActionProductionEnd, s.operator1, nil)
	s.ErrorIs(err, domain.ErrQuantityRequired)
}

func (s *ActionServiceTestSuite) TestProductionEndFinishesTheOrder() {
	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	quantity := int64(50)
	result, err := s.register(domain.ActionProductionEnd, s.operator1, &quantity)
	s.Require().NoError(err)
	s.Equal(domain.StateDone, result.State)

	snap := s.snapshot()
	s.Equal(domain.StateDone, snap.State)
	s.Require().NotNil(snap.Quantity)
	s.Equal(int64(50), *snap.Quantity)
}

func (s *ActionServiceTestSuite) TestQuantityNeverRegresses() {
	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	q1 := int64(30)
	_, err = s.register(domain.ActionPause, s.operator1, &q1)
	s.Require().NoError(err)

	_, err = s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	q2 := int64(20)
	_, err = s.register(domain.ActionProductionEnd, s.operator1, &q2)
	s.ErrorIs(err, domain.ErrQuantityRegression)
}

func (s *ActionServiceTestSuite) TestUnknownOperatorCode() {
	_, err := s.register(domain.ActionSetupStart, "9999", nil)
	s.ErrorIs(err, domain.ErrInvalidOperatorCode)
}

func (s *ActionServiceTestSuite) TestInactiveOperator() {
	s.createOperator("Desligado", "1003", false)
	_, err := s.register(domain.ActionSetupStart, "1003", nil)
	s.ErrorIs(err, domain.ErrOperatorInactive)
}

func (s *ActionServiceTestSuite) TestUnlinkedTaskIsRejected() {
	ctx := context.Background()
	var otherTask int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (name, category) VALUES ('Fresagem', 'Manual') RETURNING id`,
	).Scan(&otherTask)
	s.Require().NoError(err)

	_, err = s.actionService.RegisterAction(ctx, service.RegisterActionInput{
		WorkOrderID:  s.workOrderID,
		ItemID:       s.itemID,
		TaskID:       otherTask,
		OperatorCode: s.operator1,
		Kind:         domain.ActionSetupStart,
	})
	s.ErrorIs(err, domain.ErrTaskNotLinked)
}

func (s *ActionServiceTestSuite) TestInvalidKind() {
	_, err := s.actionService.RegisterAction(context.Background(), service.RegisterActionInput{
		WorkOrderID:  s.workOrderID,
		ItemID:       s.itemID,
		TaskID:       s.taskID,
		OperatorCode: s.operator1,
		Kind:         domain.ActionKind("teleport"),
	})
	s.ErrorIs(err, domain.ErrInvalidActionKind)
}

func (s *ActionServiceTestSuite) TestValidateOperator() {
	operator, err := s.actionService.ValidateOperator(context.Background(), s.operator1)
	s.Require().NoError(err)
	s.Equal("João", operator.Name)

	_, err = s.actionService.ValidateOperator(context.Background(), "0000")
	s.ErrorIs(err, domain.ErrInvalidOperatorCode)
}

func (s *ActionServiceTestSuite) TestListItemTasks() {
	tasks, err := s.actionService.ListItemTasks(context.Background(), s.itemID)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("Torneamento", tasks[0].Name)
	s.Require().NotNil(tasks[0].SetupSeconds)
	s.Equal(int64(500), *tasks[0].SetupSeconds)

	ctx := context.Background()
	var bareItem int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO items (name, code) VALUES ('Bucha', 'BU-01') RETURNING id`,
	).Scan(&bareItem)
	s.Require().NoError(err)

	_, err = s.actionService.ListItemTasks(ctx, bareItem)
	s.ErrorIs(err, domain.ErrNoTasksForItem)
}

func (s *ActionServiceTestSuite) TestRebuildSnapshots() {
	ctx := context.Background()

	_, err := s.register(domain.ActionProductionStart, s.operator1, nil)
	s.Require().NoError(err)

	// Corrupt the snapshot cache; the log must win on rebuild.
	_, err = s.pool.Exec(ctx,
		`UPDATE work_order_status SET state = $1 WHERE work_order_id = $2`,
		domain.StateDone, s.workOrderID)
	s.Require().NoError(err)

	count, err := s.actionService.RebuildSnapshots(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	snap := s.snapshot()
	s.Equal(domain.StateProducing, snap.State)
	s.NotNil(snap.PhaseStartedAt)
}

func TestActionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActionServiceTestSuite))
}
