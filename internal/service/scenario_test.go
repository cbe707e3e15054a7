package service

import (
	"testing"

	"github.com/triviaboard/backend/internal/models"
)

// TestFullGameFlow walks one game end to end: roster fills to the limit, the
// game starts, a clue is claimed, answered and validated.
func TestFullGameFlow(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	operator := env.createUser(t, "op", models.RoleOperator)
	alice := env.createUser(t, "alice", models.RolePlayer)
	bob := env.createUser(t, "bob", models.RolePlayer)

	game := env.createGame(t, host.ID, 2)
	clueIDs := env.createBoard(t, game.ID, host.ID)

	teamA := env.createTeam(t, game.ID, host.ID, "Team A")
	teamB := env.createTeam(t, game.ID, host.ID, "Team B")
	if _, err := env.teams.Join(teamA.ID, alice.ID, false); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := env.teams.Join(teamB.ID, bob.ID, false); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	// The roster is full
	if _, err := env.teams.Create(game.ID, host.ID, &CreateTeamRequest{Name: "Team C"}); err == nil {
		t.Fatal("expected team creation beyond the limit to fail")
	}

	started, err := env.games.Start(game.ID, host.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", started.Status)
	}

	// Team A claims the 200 clue
	state, err := env.clues.Select(clueIDs[0], teamA.ID, alice.ID)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if state.State != models.CluePending || *state.PickedByTeamID != teamA.ID {
		t.Fatalf("claim state = %+v", state)
	}

	// Team B is locked out of the same clue
	if _, err := env.clues.Select(clueIDs[0], teamB.ID, bob.ID); err == nil {
		t.Fatal("expected second claim to fail")
	}

	submitted, err := env.responses.Submit(clueIDs[0], alice.ID, &SubmitResponseRequest{
		TeamID: teamA.ID,
		Answer: "What is Paris?",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.IsCorrect != nil {
		t.Fatal("fresh submission should be unvalidated")
	}

	isCorrect := true
	if _, err := env.responses.Validate(submitted.ID, operator.ID, &ValidateResponseRequest{IsCorrect: &isCorrect}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	team, err := env.teams.GetByID(teamA.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if team.Score != 200 {
		t.Errorf("team A score = %d, want 200", team.Score)
	}

	var resolved models.ClueState
	if err := env.db.Where("clue_id = ?", clueIDs[0]).First(&resolved).Error; err != nil {
		t.Fatalf("loading clue state: %v", err)
	}
	if resolved.State != models.ClueCorrect {
		t.Errorf("clue state = %s, want CORRECT", resolved.State)
	}
}
