package service

import (
	"testing"

	"github.com/triviaboard/backend/internal/models"
)

// playableGame builds an in-progress game with two teams (the given players
// as their captains) and a two-clue board, returning the clue IDs.
func playableGame(t *testing.T, env *testEnv) (game *models.Game, teamA, teamB *models.Team, playerA, playerB *models.User, clueIDs []uint) {
	t.Helper()
	host := env.createUser(t, "host", models.RoleHost)
	playerA = env.createUser(t, "alice", models.RolePlayer)
	playerB = env.createUser(t, "bob", models.RolePlayer)

	game = env.createGame(t, host.ID, 2)
	clueIDs = env.createBoard(t, game.ID, host.ID)

	teamA = env.createTeam(t, game.ID, host.ID, "Team A")
	teamB = env.createTeam(t, game.ID, host.ID, "Team B")
	if _, err := env.teams.Join(teamA.ID, playerA.ID, false); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := env.teams.Join(teamB.ID, playerB.ID, false); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if _, err := env.games.Start(game.ID, host.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return game, teamA, teamB, playerA, playerB, clueIDs
}

func TestSelectClueCreatesPendingState(t *testing.T) {
	env := newTestEnv(t)
	_, teamA, _, playerA, _, clueIDs := playableGame(t, env)

	state, err := env.clues.Select(clueIDs[0], teamA.ID, playerA.ID)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if state.State != models.CluePending {
		t.Errorf("state = %s, want PENDING", state.State)
	}
	if state.PickedByTeamID == nil || *state.PickedByTeamID != teamA.ID {
		t.Errorf("picked_by_team_id = %v, want %d", state.PickedByTeamID, teamA.ID)
	}
}

func TestSelectClueSingleClaim(t *testing.T) {
	env := newTestEnv(t)
	_, teamA, teamB, playerA, playerB, clueIDs := playableGame(t, env)

	if _, err := env.clues.Select(clueIDs[0], teamA.ID, playerA.ID); err != nil {
		t.Fatalf("first Select failed: %v", err)
	}

	_, err := env.clues.Select(clueIDs[0], teamB.ID, playerB.ID)
	assertKind(t, err, KindConflict)

	// The other clue is still open
	if _, err := env.clues.Select(clueIDs[1], teamB.ID, playerB.ID); err != nil {
		t.Fatalf("Select of untouched clue failed: %v", err)
	}
}

func TestSelectClueRequiresInProgressGame(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	player := env.createUser(t, "alice", models.RolePlayer)
	game := env.createGame(t, host.ID, 2)
	clueIDs := env.createBoard(t, game.ID, host.ID)
	team := env.createTeam(t, game.ID, host.ID, "Team A")
	if _, err := env.teams.Join(team.ID, player.ID, false); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	_, err := env.clues.Select(clueIDs[0], team.ID, player.ID)
	assertKind(t, err, KindConflict)
}

func TestSelectClueMembershipAndGameChecks(t *testing.T) {
	env := newTestEnv(t)
	_, teamA, _, _, playerB, clueIDs := playableGame(t, env)

	// playerB is not a member of team A
	_, err := env.clues.Select(clueIDs[0], teamA.ID, playerB.ID)
	assertKind(t, err, KindForbidden)

	// A team from another game cannot claim this clue
	otherHost := env.createUser(t, "host2", models.RoleHost)
	otherGame := env.createGame(t, otherHost.ID, 2)
	otherTeam := env.createTeam(t, otherGame.ID, otherHost.ID, "Outsiders")
	_, err = env.clues.Select(clueIDs[0], otherTeam.ID, otherHost.ID)
	assertKind(t, err, KindForbidden)

	// Unknown team
	_, err = env.clues.Select(clueIDs[0], 9999, playerB.ID)
	assertKind(t, err, KindNotFound)
}

func TestResetClueAlwaysYieldsAvailable(t *testing.T) {
	env := newTestEnv(t)
	_, teamA, _, playerA, _, clueIDs := playableGame(t, env)

	// Reset with no state row lazily creates one
	state, err := env.clues.Reset(clueIDs[1], playerA.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.State != models.ClueAvailable {
		t.Errorf("state = %s, want AVAILABLE", state.State)
	}

	// Claim, then reset back
	if _, err := env.clues.Select(clueIDs[0], teamA.ID, playerA.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	state, err = env.clues.Reset(clueIDs[0], playerA.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.State != models.ClueAvailable || state.PickedByTeamID != nil || state.ResolvedByID != nil {
		t.Errorf("reset state = %s picked=%v resolved=%v, want AVAILABLE nil nil",
			state.State, state.PickedByTeamID, state.ResolvedByID)
	}

	// After reset the clue can be claimed again
	if _, err := env.clues.Select(clueIDs[0], teamA.ID, playerA.ID); err != nil {
		t.Fatalf("Select after reset failed: %v", err)
	}
}

func TestOverrideStateIsUnguardedButNeedsRow(t *testing.T) {
	env := newTestEnv(t)
	_, teamA, _, playerA, playerB, clueIDs := playableGame(t, env)

	// No state row yet
	_, err := env.clues.OverrideState(clueIDs[0], playerB.ID, &OverrideStateRequest{State: models.ClueCorrect})
	assertKind(t, err, KindNotFound)

	if _, err := env.clues.Select(clueIDs[0], teamA.ID, playerA.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Any existing user may overwrite the state directly
	state, err := env.clues.OverrideState(clueIDs[0], playerB.ID, &OverrideStateRequest{State: models.ClueIncorrect})
	if err != nil {
		t.Fatalf("OverrideState failed: %v", err)
	}
	if state.State != models.ClueIncorrect {
		t.Errorf("state = %s, want INCORRECT", state.State)
	}
	if state.ResolvedByID == nil || *state.ResolvedByID != playerB.ID {
		t.Errorf("resolved_by_id = %v, want %d", state.ResolvedByID, playerB.ID)
	}

	// Unknown user is rejected
	_, err = env.clues.OverrideState(clueIDs[0], 9999, &OverrideStateRequest{State: models.ClueAvailable})
	assertKind(t, err, KindNotFound)
}
