package service

import (
	"fmt"
	"testing"

	"github.com/triviaboard/backend/internal/models"
)

func TestCreateGameDefaults(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)

	game, err := env.games.Create(host.ID, &CreateGameRequest{Title: "Pub Quiz"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if game.Status != models.StatusLobby {
		t.Errorf("new game status = %s, want LOBBY", game.Status)
	}
	if game.TeamLimit != models.DefaultTeamLimit {
		t.Errorf("team limit = %d, want %d", game.TeamLimit, models.DefaultTeamLimit)
	}
	if game.JoinCode == "" {
		t.Error("expected a join code to be generated")
	}
}

func TestJoinCodesAreSixHexAndDistinct(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		game, err := env.games.Create(host.ID, &CreateGameRequest{Title: fmt.Sprintf("Quiz %d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if len(game.JoinCode) != 6 {
			t.Fatalf("join code %q is not 6 characters", game.JoinCode)
		}
		if seen[game.JoinCode] {
			t.Fatalf("join code %q issued twice", game.JoinCode)
		}
		seen[game.JoinCode] = true
	}
}

func TestCreateGameRejectsBlankTitle(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)

	_, err := env.games.Create(host.ID, &CreateGameRequest{Title: "   "})
	assertKind(t, err, KindInvalid)
}

func TestStartRequiresLobbyAndTeams(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	// No teams yet
	_, err := env.games.Start(game.ID, host.ID)
	assertKind(t, err, KindConflict)

	env.createTeam(t, game.ID, host.ID, "The Regulars")

	started, err := env.games.Start(game.ID, host.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Errorf("status after start = %s, want IN_PROGRESS", started.Status)
	}

	// Starting twice is a state conflict
	_, err = env.games.Start(game.ID, host.ID)
	assertKind(t, err, KindConflict)
}

func TestStartIsHostOnly(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	stranger := env.createUser(t, "stranger", models.RolePlayer)
	game := env.createGame(t, host.ID, 4)
	env.createTeam(t, game.ID, host.ID, "The Regulars")

	_, err := env.games.Start(game.ID, stranger.ID)
	assertKind(t, err, KindForbidden)
}

func TestFinishRequiresInProgress(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	_, err := env.games.Finish(game.ID, host.ID)
	assertKind(t, err, KindConflict)

	env.createTeam(t, game.ID, host.ID, "The Regulars")
	if _, err := env.games.Start(game.ID, host.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	finished, err := env.games.Finish(game.ID, host.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if finished.Status != models.StatusFinished {
		t.Errorf("status after finish = %s, want FINISHED", finished.Status)
	}
}

func TestUpdateSettingsGuards(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	other := env.createUser(t, "other", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	newTitle := "Renamed Quiz"
	if _, err := env.games.UpdateSettings(game.ID, other.ID, &UpdateGameRequest{Title: &newTitle}); err == nil {
		t.Fatal("expected non-host update to fail")
	}

	badLimit := 0
	_, err := env.games.UpdateSettings(game.ID, host.ID, &UpdateGameRequest{TeamLimit: &badLimit})
	assertKind(t, err, KindInvalid)

	goodLimit := 6
	updated, err := env.games.UpdateSettings(game.ID, host.ID, &UpdateGameRequest{Title: &newTitle, TeamLimit: &goodLimit})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.Title != newTitle || updated.TeamLimit != goodLimit {
		t.Errorf("settings not applied: title=%q limit=%d", updated.Title, updated.TeamLimit)
	}

	// Settings freeze once the game starts
	env.createTeam(t, game.ID, host.ID, "The Regulars")
	if _, err := env.games.Start(game.ID, host.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_, err = env.games.UpdateSettings(game.ID, host.ID, &UpdateGameRequest{Title: &newTitle})
	assertKind(t, err, KindConflict)
}

func TestDeleteGameIsHostOnlyButAnyStatus(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	stranger := env.createUser(t, "stranger", models.RolePlayer)
	game := env.createGame(t, host.ID, 4)
	env.createTeam(t, game.ID, host.ID, "The Regulars")
	if _, err := env.games.Start(game.ID, host.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err := env.games.Delete(game.ID, stranger.ID)
	assertKind(t, err, KindForbidden)

	if err := env.games.Delete(game.ID, host.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = env.games.GetByID(game.ID)
	assertKind(t, err, KindNotFound)
}
