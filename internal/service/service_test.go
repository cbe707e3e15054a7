package service

import (
	"fmt"
	"testing"

	"github.com/triviaboard/backend/internal/database"
	"github.com/triviaboard/backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv bundles the services under test against one in-memory database.
type testEnv struct {
	db        *gorm.DB
	games     *GameService
	teams     *TeamService
	board     *BoardService
	clues     *ClueService
	responses *ResponseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying connection: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &testEnv{
		db:        db,
		games:     NewGameService(db, nil),
		teams:     NewTeamService(db, nil),
		board:     NewBoardService(db),
		clues:     NewClueService(db, nil),
		responses: NewResponseService(db, nil),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func (e *testEnv) createGame(t *testing.T, hostID uint, teamLimit int) *models.Game {
	t.Helper()
	game, err := e.games.Create(hostID, &CreateGameRequest{
		Title:     "Friday Night Trivia",
		TeamLimit: &teamLimit,
	})
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return game
}

func (e *testEnv) createTeam(t *testing.T, gameID, actorID uint, name string) *models.Team {
	t.Helper()
	team, err := e.teams.Create(gameID, actorID, &CreateTeamRequest{Name: name})
	if err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	return team
}

// createBoard adds one round with one category and two clues (values 200 and
// 400) and returns the clue IDs in value order.
func (e *testEnv) createBoard(t *testing.T, gameID, hostID uint) []uint {
	t.Helper()
	round, err := e.board.CreateRound(gameID, hostID, &CreateRoundRequest{
		Categories: []CreateCategoryRequest{
			{
				Title: "World Capitals",
				Order: 1,
				Clues: []CreateClueRequest{
					{Question: "This city is the capital of France", Answer: "What is Paris?", Value: 200},
					{Question: "This city is the capital of Mongolia", Answer: "What is Ulaanbaatar?", Value: 400},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to create round: %v", err)
	}

	var clueIDs []uint
	for _, clue := range round.Categories[0].Clues {
		clueIDs = append(clueIDs, clue.ID)
	}
	return clueIDs
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	svcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *service.Error, got %T: %v", err, err)
	}
	if svcErr.Kind != kind {
		t.Fatalf("expected error kind %d, got %d (%s)", kind, svcErr.Kind, svcErr.Message)
	}
}
