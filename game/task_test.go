package game

import (
	"math/rand"
	"testing"

	"github.com/remigerme/the-crew-solver/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledBy(t *testing.T, leader int, players ...*Player) *State {
	t.Helper()
	s, err := NewStateLedBy(leader, players...)
	require.NoError(t, err)
	return s
}

func play(t *testing.T, s *State, cards ...deck.Card) {
	t.Helper()
	for _, c := range cards {
		require.NoError(t, s.PlayCard(c))
	}
}

func eval(s *State, ip int) Status {
	return s.Player(ip).TasksStatus(s, ip)
}

func TestScenarioWinCards(t *testing.T) {
	t.Log("Given the captain must win blue:1 and red:6")
	s, err := NewState(
		NewPlayer(MustHand(card(deck.Trump, 4), card(deck.Blue, 2)),
			MustTask(WinCards(card(deck.Blue, 1), card(deck.Red, 6)))),
		NewPlayer(MustHand(card(deck.Blue, 1), card(deck.Red, 6))),
	)
	require.NoError(t, err)
	assert.Equal(t, Unknown, s.Status())

	t.Log("When blue:2 draws blue:1 and trump:4 draws red:6")
	play(t, s, card(deck.Blue, 2), card(deck.Blue, 1))
	assert.Equal(t, Unknown, s.Status())
	play(t, s, card(deck.Trump, 4), card(deck.Red, 6))

	t.Log("Then the task is done")
	assert.Equal(t, Done, s.Status())
}

func TestWinCards(t *testing.T) {
	t.Run("fails when someone else wins a target", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9))),
			NewPlayer(MustHand(card(deck.Red, 1)), MustTask(WinCards(card(deck.Red, 9)))),
		)
		assert.Equal(t, Unknown, eval(s, 1))
		play(t, s, card(deck.Red, 9), card(deck.Red, 1))
		assert.Equal(t, Failed, eval(s, 1))
	})

	t.Run("fails at once when a target was not dealt", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9)), MustTask(WinCards(card(deck.Green, 5)))),
			NewPlayer(MustHand(card(deck.Red, 1))),
		)
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("needs at least one card", func(t *testing.T) {
		_, err := WinCards()
		assert.ErrorIs(t, err, ErrInvalidTask)
	})
}

func TestDontWinCards(t *testing.T) {
	t.Run("done when the forbidden card goes to someone else", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Blue, 1)), MustTask(DontWinSuits(deck.Blue))),
			NewPlayer(MustHand(card(deck.Blue, 6))),
		)
		assert.Equal(t, Unknown, s.Status())
		play(t, s, card(deck.Blue, 1), card(deck.Blue, 6))
		assert.Equal(t, Done, s.Status())
	})

	t.Run("fails when the player wins a forbidden card", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Blue, 6)), MustTask(DontWinSuits(deck.Blue))),
			NewPlayer(MustHand(card(deck.Blue, 1))),
		)
		play(t, s, card(deck.Blue, 6), card(deck.Blue, 1))
		assert.Equal(t, Failed, s.Status())
	})

	t.Run("ranks cover every ordinary suit", func(t *testing.T) {
		task := MustTask(DontWinRanks(1))
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Yellow, 9)), task),
			NewPlayer(MustHand(card(deck.Yellow, 1))),
		)
		play(t, s, card(deck.Yellow, 9), card(deck.Yellow, 1))
		assert.Equal(t, Failed, eval(s, 0))
	})
}

func TestDontOpenTrickWith(t *testing.T) {
	task := MustTask(DontOpenTrickWith(deck.Green))

	t.Run("fails when leading the suit", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Green, 1), card(deck.Red, 5)), task),
			NewPlayer(MustHand(card(deck.Green, 9), card(deck.Red, 1))),
		)
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Green, 1))
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("following with the suit is fine", func(t *testing.T) {
		s := ledBy(t, 1,
			NewPlayer(MustHand(card(deck.Green, 1), card(deck.Red, 5)), task),
			NewPlayer(MustHand(card(deck.Green, 9), card(deck.Red, 1))),
		)
		play(t, s, card(deck.Green, 9), card(deck.Green, 1))
		assert.Equal(t, Done, eval(s, 0), "no green left to lead")
	})
}

func TestWinTrickWith(t *testing.T) {
	t.Run("win with a rank", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 5), card(deck.Blue, 2)), MustTask(WinTrickWith(5, 0))),
			NewPlayer(MustHand(card(deck.Red, 3), card(deck.Blue, 1))),
		)
		play(t, s, card(deck.Red, 5))
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Red, 3))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("co-requisite played by another player", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 6)), MustTask(WinTrickWith(6, 5))),
			NewPlayer(MustHand(card(deck.Red, 5))),
		)
		play(t, s, card(deck.Red, 6), card(deck.Red, 5))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("fails without the co-requisite in other hands", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 6), card(deck.Blue, 5)), MustTask(WinTrickWith(6, 5))),
			NewPlayer(MustHand(card(deck.Red, 4), card(deck.Blue, 1))),
		)
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("fails without a card of the rank", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 1)), MustTask(WinTrickWith(9, 0))),
			NewPlayer(MustHand(card(deck.Red, 4))),
		)
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("rank out of range", func(t *testing.T) {
		_, err := WinTrickWith(10, 0)
		assert.ErrorIs(t, err, ErrInvalidTask)
	})
}

func TestWinTricksVersusCaptain(t *testing.T) {
	deal := func(cmp Comparison) *State {
		s, err := NewState(
			NewPlayer(MustHand(card(deck.Trump, 4), card(deck.Red, 1))),
			NewPlayer(MustHand(card(deck.Red, 5), card(deck.Red, 9)), MustTask(WinTricksVersusCaptain(cmp))),
		)
		require.NoError(t, err)
		return s
	}

	for _, tc := range []struct {
		cmp   Comparison
		after Status
		want  Status
	}{
		{Same, Unknown, Done},
		{More, Failed, Failed},
		{Fewer, Unknown, Failed},
	} {
		t.Run(tc.cmp.String(), func(t *testing.T) {
			t.Log("Given the captain takes the first trick")
			s := deal(tc.cmp)
			play(t, s, card(deck.Trump, 4), card(deck.Red, 5))
			assert.Equal(t, tc.after, eval(s, 1))

			t.Log("Then the second trick levels the count")
			play(t, s, card(deck.Red, 1), card(deck.Red, 9))
			assert.Equal(t, tc.want, eval(s, 1))
		})
	}
}

func TestPredicateMatches(t *testing.T) {
	tt := []struct {
		name  string
		pred  Predicate
		cards []deck.Card
		want  bool
	}{
		{"all even", Predicate{Kind: AllEven}, []deck.Card{card(deck.Red, 2), card(deck.Trump, 4)}, true},
		{"not all even", Predicate{Kind: AllEven}, []deck.Card{card(deck.Red, 2), card(deck.Red, 3)}, false},
		{"all odd", Predicate{Kind: AllOdd}, []deck.Card{card(deck.Red, 1), card(deck.Blue, 9)}, true},
		{"all above", Predicate{Kind: AllAbove, Value: 5}, []deck.Card{card(deck.Red, 6), card(deck.Blue, 9)}, true},
		{"all below excludes trump", Predicate{Kind: AllBelow, Value: 7}, []deck.Card{card(deck.Red, 6), card(deck.Trump, 1)}, false},
		{"all below", Predicate{Kind: AllBelow, Value: 7}, []deck.Card{card(deck.Red, 6), card(deck.Blue, 1)}, true},
		{"total above", Predicate{Kind: TotalAbove, Value: 10}, []deck.Card{card(deck.Red, 6), card(deck.Blue, 5)}, true},
		{"total above excludes trump", Predicate{Kind: TotalAbove, Value: 1}, []deck.Card{card(deck.Red, 6), card(deck.Trump, 4)}, false},
		{"total below", Predicate{Kind: TotalBelow, Value: 8}, []deck.Card{card(deck.Red, 6), card(deck.Blue, 1)}, true},
		{"total in", Predicate{Kind: TotalIn, Values: []int{22, 23}}, []deck.Card{card(deck.Red, 9), card(deck.Blue, 9), card(deck.Green, 4)}, true},
		{"total not in", Predicate{Kind: TotalIn, Values: []int{22, 23}}, []deck.Card{card(deck.Red, 9)}, false},
		{"same suit count", Predicate{Kind: SameSuitCount, Suits: [2]deck.Suit{deck.Red, deck.Blue}}, []deck.Card{card(deck.Red, 9), card(deck.Blue, 1)}, true},
		{"same suit count needs one of each", Predicate{Kind: SameSuitCount, Suits: [2]deck.Suit{deck.Red, deck.Blue}}, []deck.Card{card(deck.Green, 1)}, false},
		{"card with trump", Predicate{Kind: CardWithTrump, Card: card(deck.Green, 9)}, []deck.Card{card(deck.Green, 9), card(deck.Trump, 1)}, true},
		{"card without trump", Predicate{Kind: CardWithTrump, Card: card(deck.Green, 9)}, []deck.Card{card(deck.Green, 9), card(deck.Green, 1)}, false},
		{"card in trick", Predicate{Kind: CardInTrick, Card: card(deck.Green, 9), Index: 0}, []deck.Card{card(deck.Green, 9)}, true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pred.Matches(MustTrick(0, 0, tc.cards...)))
		})
	}
}

func TestWinTrickMatching(t *testing.T) {
	t.Run("done on a matching won trick", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 2))),
			NewPlayer(MustHand(card(deck.Red, 4)), MustTask(WinTrickMatching(Predicate{Kind: AllEven}))),
		)
		play(t, s, card(deck.Red, 2), card(deck.Red, 4))
		assert.Equal(t, Done, eval(s, 1))
	})

	t.Run("card bound to a trick index that passed", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 2), card(deck.Blue, 1)),
				MustTask(WinTrickMatching(Predicate{Kind: CardInTrick, Card: card(deck.Blue, 9), Index: 0}))),
			NewPlayer(MustHand(card(deck.Red, 4), card(deck.Blue, 9))),
		)
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Red, 2), card(deck.Red, 4))
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("card with trump fails without trumps in play", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 2)), MustTask(WinTrickMatching(Predicate{Kind: CardWithTrump, Card: card(deck.Red, 4)}))),
			NewPlayer(MustHand(card(deck.Red, 4))),
		)
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("invalid predicate", func(t *testing.T) {
		_, err := WinTrickMatching(Predicate{Kind: TotalIn})
		assert.ErrorIs(t, err, ErrInvalidTask)

		_, err = WinTrickMatching(Predicate{Kind: SameSuitCount, Suits: [2]deck.Suit{deck.Red, deck.Red}})
		assert.ErrorIs(t, err, ErrInvalidTask)
	})
}

func twoTrickDeal(tasks0, tasks1 []Task) []*Player {
	return []*Player{
		NewPlayer(MustHand(card(deck.Red, 1), card(deck.Red, 9)), tasks0...),
		NewPlayer(MustHand(card(deck.Red, 5), card(deck.Red, 6)), tasks1...),
	}
}

func TestDontWinTricks(t *testing.T) {
	t.Run("done once the forbidden trick passed", func(t *testing.T) {
		s := ledBy(t, 0, twoTrickDeal([]Task{MustTask(DontWinTricks(0))}, nil)...)
		play(t, s, card(deck.Red, 1), card(deck.Red, 5))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("any trick", func(t *testing.T) {
		s := ledBy(t, 0, twoTrickDeal([]Task{DontWinAnyTrick()}, nil)...)
		play(t, s, card(deck.Red, 1), card(deck.Red, 5))
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Red, 6), card(deck.Red, 9))
		assert.Equal(t, Failed, eval(s, 0))
	})
}

func TestWinTricks(t *testing.T) {
	t.Run("strict is decided at the end", func(t *testing.T) {
		strict := MustTask(WinTricks(true, 1))
		loose := MustTask(WinTricks(false, 1))
		s := ledBy(t, 0, twoTrickDeal([]Task{strict, loose}, nil)...)
		play(t, s, card(deck.Red, 1), card(deck.Red, 5))
		assert.Equal(t, Unknown, strict.Eval(s, 0))
		play(t, s, card(deck.Red, 6), card(deck.Red, 9))
		assert.Equal(t, Done, strict.Eval(s, 0))
		assert.Equal(t, Done, loose.Eval(s, 0))
	})

	t.Run("strict fails on an extra trick", func(t *testing.T) {
		s := ledBy(t, 0, twoTrickDeal([]Task{MustTask(WinTricks(true, 1))}, nil)...)
		play(t, s, card(deck.Red, 9), card(deck.Red, 5))
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("fails once the index passed unwon", func(t *testing.T) {
		s := ledBy(t, 0, twoTrickDeal([]Task{MustTask(WinTricks(false, 0))}, nil)...)
		play(t, s, card(deck.Red, 1), card(deck.Red, 5))
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("fails when the index is never played", func(t *testing.T) {
		s := ledBy(t, 0, twoTrickDeal([]Task{MustTask(WinTricks(false, 5))}, nil)...)
		assert.Equal(t, Failed, eval(s, 0))
	})
}

func TestWinTrickCount(t *testing.T) {
	one := MustTask(WinTrickCount(1))
	three := MustTask(WinTrickCount(3))
	s := ledBy(t, 0, twoTrickDeal([]Task{one}, nil)...)

	assert.Equal(t, Failed, three.Eval(s, 0), "only two tricks are played")
	play(t, s, card(deck.Red, 1), card(deck.Red, 5))
	assert.Equal(t, Unknown, one.Eval(s, 0))
	play(t, s, card(deck.Red, 6), card(deck.Red, 9))
	assert.Equal(t, Done, one.Eval(s, 0))
}

func TestWinAmount(t *testing.T) {
	t.Run("fails early when too few cards of the rank exist", func(t *testing.T) {
		t.Log("Given a truncated deal holding two fives")
		task := MustTask(WinRankAmount(false, map[int]int{5: 3}))
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 5), card(deck.Blue, 1), card(deck.Green, 2)), task),
			NewPlayer(MustHand(card(deck.Blue, 5), card(deck.Red, 1), card(deck.Green, 3))),
		)

		t.Log("Then the task is failed before any card is played")
		assert.False(t, s.IsOver())
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("exact suit quota exceeded", func(t *testing.T) {
		task := MustTask(WinSuitAmount(true, map[deck.Suit]int{deck.Red: 1}))
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9), card(deck.Blue, 1)), task),
			NewPlayer(MustHand(card(deck.Red, 1), card(deck.Blue, 2))),
		)
		play(t, s, card(deck.Red, 9), card(deck.Red, 1))
		assert.Equal(t, Failed, eval(s, 0))
	})

	t.Run("exact suit quota met once no card is left", func(t *testing.T) {
		task := MustTask(WinSuitAmount(true, map[deck.Suit]int{deck.Red: 2}))
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9), card(deck.Blue, 1)), task),
			NewPlayer(MustHand(card(deck.Red, 1), card(deck.Blue, 2))),
		)
		play(t, s, card(deck.Red, 9), card(deck.Red, 1))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("at least", func(t *testing.T) {
		task := MustTask(WinSuitAmount(false, map[deck.Suit]int{deck.Red: 1, deck.Trump: 0}))
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9), card(deck.Blue, 1)), task),
			NewPlayer(MustHand(card(deck.Red, 1), card(deck.Blue, 2))),
		)
		play(t, s, card(deck.Red, 9), card(deck.Red, 1))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("invalid quotas", func(t *testing.T) {
		_, err := WinSuitAmount(false, map[deck.Suit]int{deck.Trump: 5})
		assert.ErrorIs(t, err, ErrInvalidTask)

		_, err = WinRankAmount(false, map[int]int{0: 1})
		assert.ErrorIs(t, err, ErrInvalidTask)
	})
}

func threeTrickDeal(tasks0, tasks1 []Task) []*Player {
	return []*Player{
		NewPlayer(MustHand(card(deck.Red, 9), card(deck.Red, 8), card(deck.Red, 1)), tasks0...),
		NewPlayer(MustHand(card(deck.Red, 2), card(deck.Red, 3), card(deck.Red, 4)), tasks1...),
	}
}

func TestConsecutiveTricks(t *testing.T) {
	atLeast := MustTask(WinConsecutiveTricks(2, false))
	exactly := MustTask(WinConsecutiveTricks(2, true))
	never := DontWinConsecutiveTricks()

	t.Run("a run of two", func(t *testing.T) {
		s := ledBy(t, 0, threeTrickDeal(nil, nil)...)
		play(t, s, card(deck.Red, 9), card(deck.Red, 2))
		assert.Equal(t, Unknown, atLeast.Eval(s, 0))
		assert.Equal(t, Unknown, never.Eval(s, 0))

		play(t, s, card(deck.Red, 8), card(deck.Red, 3))
		assert.Equal(t, Done, atLeast.Eval(s, 0))
		assert.Equal(t, Unknown, exactly.Eval(s, 0))
		assert.Equal(t, Failed, never.Eval(s, 0))

		play(t, s, card(deck.Red, 1), card(deck.Red, 4))
		assert.Equal(t, Done, exactly.Eval(s, 0))
	})

	t.Run("a run of three is too long", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 9), card(deck.Red, 8), card(deck.Red, 7))),
			NewPlayer(MustHand(card(deck.Red, 2), card(deck.Red, 3), card(deck.Red, 4))),
		)
		play(t, s, card(deck.Red, 9), card(deck.Red, 2), card(deck.Red, 8), card(deck.Red, 3))
		assert.Equal(t, Unknown, exactly.Eval(s, 0))
		play(t, s, card(deck.Red, 7), card(deck.Red, 4))
		assert.Equal(t, Failed, exactly.Eval(s, 0))
		assert.Equal(t, Done, atLeast.Eval(s, 0))
	})

	t.Run("unreachable run", func(t *testing.T) {
		s := ledBy(t, 0, threeTrickDeal(nil, nil)...)
		play(t, s, card(deck.Red, 1), card(deck.Red, 4))
		play(t, s, card(deck.Red, 2), card(deck.Red, 9))
		assert.Equal(t, Failed, atLeast.Eval(s, 1), "a broken run of one with one trick left")
		assert.Equal(t, Failed, exactly.Eval(s, 1))
		assert.Equal(t, Unknown, atLeast.Eval(s, 0), "player 0 can still win tricks 1 and 2")
	})
}

func TestWinOnlyTrump(t *testing.T) {
	t.Run("done when no other trump can come", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Trump, 2), card(deck.Red, 9)), MustTask(WinOnlyTrump(2))),
			NewPlayer(MustHand(card(deck.Red, 5), card(deck.Blue, 1))),
		)
		play(t, s, card(deck.Trump, 2), card(deck.Red, 5))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("fails on a second trump", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Trump, 2), card(deck.Red, 9)), MustTask(WinOnlyTrump(2))),
			NewPlayer(MustHand(card(deck.Trump, 1), card(deck.Blue, 1))),
		)
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Trump, 2), card(deck.Trump, 1))
		assert.Equal(t, Failed, eval(s, 0))
	})
}

func TestWinWholeSuit(t *testing.T) {
	t.Run("every green card", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Green, 1), card(deck.Green, 2)), WinWholeSuit()),
			NewPlayer(MustHand(card(deck.Blue, 1), card(deck.Blue, 2))),
		)
		play(t, s, card(deck.Green, 1), card(deck.Blue, 1))
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Green, 2), card(deck.Blue, 2))
		assert.Equal(t, Done, eval(s, 0))
	})

	t.Run("fails when every suit is split", func(t *testing.T) {
		s := ledBy(t, 0,
			NewPlayer(MustHand(card(deck.Red, 1)), WinWholeSuit()),
			NewPlayer(MustHand(card(deck.Red, 2))),
		)
		assert.Equal(t, Unknown, eval(s, 0))
		play(t, s, card(deck.Red, 1), card(deck.Red, 2))
		assert.Equal(t, Failed, eval(s, 0))
	})
}

func TestWinMoreOfSuit(t *testing.T) {
	more := MustTask(WinMoreOfSuit(deck.Red, deck.Blue, false))
	equal := MustTask(WinMoreOfSuit(deck.Red, deck.Blue, true))
	s := ledBy(t, 0,
		NewPlayer(MustHand(card(deck.Red, 9), card(deck.Blue, 9))),
		NewPlayer(MustHand(card(deck.Red, 1), card(deck.Blue, 1))),
	)
	play(t, s, card(deck.Red, 9), card(deck.Red, 1))
	assert.Equal(t, Unknown, more.Eval(s, 0), "both blue cards could still follow")
	assert.Equal(t, Unknown, equal.Eval(s, 0))

	play(t, s, card(deck.Blue, 9), card(deck.Blue, 1))
	assert.Equal(t, Done, equal.Eval(s, 0))
	assert.Equal(t, Failed, more.Eval(s, 0))
	assert.Equal(t, Failed, more.Eval(s, 1))

	_, err := WinMoreOfSuit(deck.Red, deck.Red, false)
	assert.ErrorIs(t, err, ErrInvalidTask)
}

func TestWinMoreTricksThanOthers(t *testing.T) {
	each := MustTask(WinMoreTricksThanOthers(MoreThanEach))
	together := MustTask(WinMoreTricksThanOthers(MoreThanAllTogether))
	fewer := MustTask(WinMoreTricksThanOthers(FewerThanEach))

	s := ledBy(t, 0, threeTrickDeal(nil, nil)...)
	play(t, s, card(deck.Red, 9), card(deck.Red, 2))
	assert.Equal(t, Unknown, each.Eval(s, 0))
	play(t, s, card(deck.Red, 8), card(deck.Red, 3))

	assert.Equal(t, Done, each.Eval(s, 0))
	assert.Equal(t, Done, together.Eval(s, 0))
	assert.Equal(t, Failed, fewer.Eval(s, 0))
	assert.Equal(t, Failed, each.Eval(s, 1))
	assert.Equal(t, Done, fewer.Eval(s, 1))
}

// allTasks returns one instance of every family; captain-bound tasks are left out for the captain.
func allTasks(captain bool) []Task {
	tasks := []Task{
		MustTask(WinCards(card(deck.Blue, 3), card(deck.Trump, 1))),
		MustTask(DontWinCards(card(deck.Red, 9))),
		MustTask(DontWinSuits(deck.Green)),
		MustTask(DontWinRanks(9)),
		MustTask(DontOpenTrickWith(deck.Yellow, deck.Red)),
		MustTask(WinTrickWith(1, 0)),
		MustTask(WinTrickWith(6, 5)),
		MustTask(WinTrickMatching(Predicate{Kind: TotalIn, Values: []int{22, 23}})),
		MustTask(WinTrickMatching(Predicate{Kind: AllBelow, Value: 7})),
		MustTask(WinTrickMatching(Predicate{Kind: CardWithTrump, Card: card(deck.Green, 9)})),
		MustTask(WinTrickMatching(Predicate{Kind: CardInTrick, Card: card(deck.Red, 4), Index: 2})),
		MustTask(DontWinTricks(0, 1, 2)),
		DontWinAnyTrick(),
		MustTask(WinTricks(false, 0)),
		MustTask(WinTricks(true, 1, 3)),
		MustTask(WinTrickCount(2)),
		MustTask(WinSuitAmount(false, map[deck.Suit]int{deck.Yellow: 3})),
		MustTask(WinSuitAmount(true, map[deck.Suit]int{deck.Red: 1, deck.Trump: 1})),
		MustTask(WinRankAmount(true, map[int]int{5: 2})),
		MustTask(WinConsecutiveTricks(2, false)),
		MustTask(WinConsecutiveTricks(3, true)),
		DontWinConsecutiveTricks(),
		MustTask(WinOnlyTrump(3)),
		WinWholeSuit(),
		MustTask(WinMoreOfSuit(deck.Yellow, deck.Blue, false)),
		MustTask(WinMoreOfSuit(deck.Red, deck.Green, true)),
		MustTask(WinMoreTricksThanOthers(MoreThanEach)),
		MustTask(WinMoreTricksThanOthers(MoreThanAllTogether)),
		MustTask(WinMoreTricksThanOthers(FewerThanEach)),
	}
	if !captain {
		tasks = append(tasks,
			MustTask(WinTricksVersusCaptain(More)),
			MustTask(WinTricksVersusCaptain(Fewer)),
			MustTask(WinTricksVersusCaptain(Same)),
		)
	}
	return tasks
}

func TestTaskVerdictsAreIrrevocable(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		n := deck.MinPlayers + int(seed)%3
		s, err := NewRandomState(rng, n)
		require.NoError(t, err)
		captain, _ := s.Captain()

		tasks := make([][]Task, n)
		decided := make([][]Status, n)
		for i := range tasks {
			tasks[i] = allTasks(i == captain)
			decided[i] = make([]Status, len(tasks[i]))
		}

		for {
			for i := range tasks {
				for j, task := range tasks[i] {
					got := task.Eval(s, i)
					if decided[i][j].Decided() {
						require.Equal(t, decided[i][j], got, "seed %d: %s for player %d changed after %s", seed, task, i, s)
					}
					decided[i][j] = got
				}
			}
			if s.IsOver() {
				break
			}
			var led *deck.Card
			if lead, ok := s.CurrentTrick().Lead(); ok {
				led = &lead
			}
			legal := s.CurrentPlayer().Hand().Playable(led)
			require.NoError(t, s.PlayCard(legal[rng.Intn(len(legal))]))
		}

		t.Log("Then every task is decided at the end of the game")
		for i := range tasks {
			for j, task := range tasks[i] {
				assert.True(t, decided[i][j].Decided(), "seed %d: %s for player %d", seed, task, i)
			}
		}
	}
}
