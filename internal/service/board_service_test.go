package service

import (
	"testing"

	"github.com/triviaboard/backend/internal/models"
)

func TestCreateRoundNestedWrite(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	round, err := env.board.CreateRound(game.ID, host.ID, &CreateRoundRequest{
		Categories: []CreateCategoryRequest{
			{
				Title: "Potpourri",
				Order: 1,
				Clues: []CreateClueRequest{
					{Question: "Q high", Answer: "A high", Value: 400},
					{Question: "Q low", Answer: "A low", Value: 200},
				},
			},
			{Title: "History", Order: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	if round.Type != models.RoundJeopardy {
		t.Errorf("default round type = %s, want JEOPARDY", round.Type)
	}
	if round.Position != 1 {
		t.Errorf("first round position = %d, want 1", round.Position)
	}
	if len(round.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(round.Categories))
	}

	// Clues come back sorted by value ascending
	clues := round.Categories[0].Clues
	if len(clues) != 2 || clues[0].Value != 200 || clues[1].Value != 400 {
		t.Errorf("clues not ordered by value: %+v", clues)
	}
}

func TestCreateRoundGuards(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	stranger := env.createUser(t, "stranger", models.RolePlayer)
	game := env.createGame(t, host.ID, 4)

	_, err := env.board.CreateRound(game.ID, host.ID, &CreateRoundRequest{})
	assertKind(t, err, KindInvalid)

	req := &CreateRoundRequest{Categories: []CreateCategoryRequest{{Title: "Solo", Order: 1}}}

	_, err = env.board.CreateRound(game.ID, stranger.ID, req)
	assertKind(t, err, KindForbidden)

	env.createTeam(t, game.ID, host.ID, "Alpha")
	if _, err := env.games.Start(game.ID, host.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_, err = env.board.CreateRound(game.ID, host.ID, req)
	assertKind(t, err, KindConflict)
}

func TestDeleteRoundRenumbersRemaining(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	req := func(title string) *CreateRoundRequest {
		return &CreateRoundRequest{Categories: []CreateCategoryRequest{{Title: title, Order: 1}}}
	}
	first, err := env.board.CreateRound(game.ID, host.ID, req("One"))
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	second, err := env.board.CreateRound(game.ID, host.ID, req("Two"))
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	third, err := env.board.CreateRound(game.ID, host.ID, req("Three"))
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	if first.Position != 1 || second.Position != 2 || third.Position != 3 {
		t.Fatalf("unexpected initial positions: %d, %d, %d", first.Position, second.Position, third.Position)
	}

	if err := env.board.DeleteRound(second.ID, host.ID); err != nil {
		t.Fatalf("DeleteRound failed: %v", err)
	}

	rounds, err := env.board.ListRounds(game.ID)
	if err != nil {
		t.Fatalf("ListRounds failed: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	for i, round := range rounds {
		if round.Position != i+1 {
			t.Errorf("round %d position = %d, want %d", round.ID, round.Position, i+1)
		}
	}
}

// TestDeleteRoundRemovesClueStates covers the lazy state row Reset can create
// while the game is still in the lobby: deleting the round must take it along,
// or the unique clue_id index pins a row for a clue that no longer exists.
func TestDeleteRoundRemovesClueStates(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)
	clueIDs := env.createBoard(t, game.ID, host.ID)

	if _, err := env.clues.Reset(clueIDs[0], host.ID); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	rounds, err := env.board.ListRounds(game.ID)
	if err != nil {
		t.Fatalf("ListRounds failed: %v", err)
	}
	if err := env.board.DeleteRound(rounds[0].ID, host.ID); err != nil {
		t.Fatalf("DeleteRound failed: %v", err)
	}

	var count int64
	if err := env.db.Model(&models.ClueState{}).Where("clue_id IN ?", clueIDs).Count(&count).Error; err != nil {
		t.Fatalf("counting clue states: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no clue states after round deletion, found %d", count)
	}
}

func TestUpdateRoundOrderSetsDirectly(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", models.RoleHost)
	game := env.createGame(t, host.ID, 4)

	round, err := env.board.CreateRound(game.ID, host.ID, &CreateRoundRequest{
		Categories: []CreateCategoryRequest{{Title: "Solo", Order: 1}},
	})
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	moved, err := env.board.UpdateRoundOrder(round.ID, host.ID, 5)
	if err != nil {
		t.Fatalf("UpdateRoundOrder failed: %v", err)
	}
	if moved.Position != 5 {
		t.Errorf("position = %d, want 5", moved.Position)
	}

	_, err = env.board.UpdateRoundOrder(round.ID, host.ID, 0)
	assertKind(t, err, KindInvalid)
}
