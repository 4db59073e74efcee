package escrow

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStageTransitions(t *testing.T) {
	Convey("Given an escrow stage", t, func() {
		Convey("Deposited can be completed or refunded", func() {
			So(StageDeposited.Transition(StageCompleted), ShouldBeNil)
			So(StageDeposited.Transition(StageRefunded), ShouldBeNil)
			So(ErrStageInvalid.Is(StageDeposited.Transition(StageDeposited)), ShouldBeTrue)
		})

		Convey("Completed is terminal", func() {
			for _, next := range []Stage{StageDeposited, StageCompleted, StageRefunded} {
				So(ErrStageInvalid.Is(StageCompleted.Transition(next)), ShouldBeTrue)
			}
		})

		Convey("Refunded only accepts a refund retry", func() {
			So(StageRefunded.Transition(StageRefunded), ShouldBeNil)
			So(ErrStageInvalid.Is(StageRefunded.Transition(StageCompleted)), ShouldBeTrue)
			So(ErrStageInvalid.Is(StageRefunded.Transition(StageDeposited)), ShouldBeTrue)
		})

		Convey("Nothing moves back into deposited", func() {
			So(ErrStageInvalid.Is(Stage(0).Transition(StageDeposited)), ShouldBeTrue)
		})
	})
}

func TestParseStage(t *testing.T) {
	for code, want := range map[int32]Stage{1: StageDeposited, 2: StageCompleted, 3: StageRefunded} {
		got, err := ParseStage(code)
		if err != nil {
			t.Fatalf("code %d: %s", code, err)
		}
		if got != want {
			t.Fatalf("code %d: want %s, got %s", code, want, got)
		}
	}
	for _, code := range []int32{0, 4, -1, 255} {
		if _, err := ParseStage(code); !ErrStageInvalid.Is(err) {
			t.Fatalf("code %d: want invalid stage, got %+v", code, err)
		}
	}
}
