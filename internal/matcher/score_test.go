package matcher_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
	. "github.com/smartystreets/goconvey/convey"
)

const scoreTolerance = 1e-9

func TestComputeMatch(t *testing.T) {
	Convey("Given a raw probability of 0.90", t, func() {
		raw := 0.90

		Convey("When the resume and job share no category", func() {
			result, err := matcher.ComputeMatch(raw, models.CategorySet{"IT"}, models.CategorySet{"FIN"})

			Convey("Then the score is cut to a tenth and flagged critical", func() {
				So(err, ShouldBeNil)
				So(result.OverlapSize, ShouldEqual, 0)
				So(result.Overlap, ShouldBeEmpty)
				So(result.AdjustedScore, ShouldAlmostEqual, 9.0, scoreTolerance)
				So(result.Label, ShouldEqual, models.LabelCriticalMismatch)
			})
		})

		Convey("When exactly one category overlaps", func() {
			result, err := matcher.ComputeMatch(raw, models.CategorySet{"IT", "MGMT"}, models.CategorySet{"IT"})

			Convey("Then the score is halved and marked partial", func() {
				So(err, ShouldBeNil)
				So(result.OverlapSize, ShouldEqual, 1)
				So(result.Overlap, ShouldResemble, models.CategorySet{"IT"})
				So(result.AdjustedScore, ShouldAlmostEqual, 45.0, scoreTolerance)
				So(result.Label, ShouldEqual, models.LabelPartialMatch)
			})
		})

		Convey("When two or more categories overlap", func() {
			result, err := matcher.ComputeMatch(raw, models.CategorySet{"IT", "MGMT"}, models.CategorySet{"IT", "MGMT", "FIN"})

			Convey("Then the raw score is kept", func() {
				So(err, ShouldBeNil)
				So(result.OverlapSize, ShouldEqual, 2)
				So(result.AdjustedScore, ShouldAlmostEqual, 90.0, scoreTolerance)
				So(result.Label, ShouldEqual, models.LabelStrongMatch)
			})
		})
	})

	Convey("Given a raw probability of 0.95 and two shared categories", t, func() {
		result, err := matcher.ComputeMatch(0.95, models.CategorySet{"IT", "MGMT"}, models.CategorySet{"IT", "MGMT"})

		Convey("Then the match is strong", func() {
			So(err, ShouldBeNil)
			So(result.OverlapSize, ShouldEqual, 2)
			So(result.AdjustedScore, ShouldAlmostEqual, 95.0, scoreTolerance)
			So(result.Label, ShouldEqual, models.LabelStrongMatch)
		})
	})

	Convey("Given full overlap but a score at the threshold", t, func() {
		result, err := matcher.ComputeMatch(0.70, models.CategorySet{"IT", "FIN"}, models.CategorySet{"FIN", "IT"})

		Convey("Then 70 is not strong", func() {
			So(err, ShouldBeNil)
			So(result.Label, ShouldEqual, models.LabelPartialMatch)
		})
	})

	Convey("Given a probability outside [0, 1]", t, func() {
		for _, raw := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
			_, err := matcher.ComputeMatch(raw, models.CategorySet{"IT"}, models.CategorySet{"IT"})
			So(errors.Is(err, matcher.ErrProbabilityOutOfRange), ShouldBeTrue)
		}
	})

	Convey("Given the probability bounds", t, func() {
		Convey("Then 0 and 1 are accepted", func() {
			low, err := matcher.ComputeMatch(0, models.CategorySet{"IT", "FIN"}, models.CategorySet{"IT", "FIN"})
			So(err, ShouldBeNil)
			So(low.AdjustedScore, ShouldEqual, 0.0)

			high, err := matcher.ComputeMatch(1, models.CategorySet{"IT", "FIN"}, models.CategorySet{"IT", "FIN"})
			So(err, ShouldBeNil)
			So(high.AdjustedScore, ShouldEqual, 100.0)
		})
	})
}

func TestComputeMatchProperties(t *testing.T) {
	probabilities := []float64{0, 0.01, 0.25, 0.5, 0.7, 0.71, 0.9, 0.999, 1}
	disjoint := [2]models.CategorySet{{"IT"}, {"FIN"}}
	single := [2]models.CategorySet{{"IT", "HR"}, {"IT", "FIN"}}
	many := [2]models.CategorySet{{"IT", "FIN", "HR"}, {"IT", "FIN"}}

	Convey("For every probability", t, func() {
		for _, raw := range probabilities {
			r0, err := matcher.ComputeMatch(raw, disjoint[0], disjoint[1])
			So(err, ShouldBeNil)
			r1, err := matcher.ComputeMatch(raw, single[0], single[1])
			So(err, ShouldBeNil)
			r2, err := matcher.ComputeMatch(raw, many[0], many[1])
			So(err, ShouldBeNil)

			Convey("Overlap never lowers the score: p="+fmt.Sprintf("%.3f", raw), func() {
				So(r0.AdjustedScore, ShouldBeLessThanOrEqualTo, r1.AdjustedScore)
				So(r1.AdjustedScore, ShouldBeLessThanOrEqualTo, r2.AdjustedScore)
			})

			Convey("Zero overlap stays under a tenth of the base: p="+fmt.Sprintf("%.3f", raw), func() {
				So(r0.AdjustedScore, ShouldBeLessThanOrEqualTo, raw*100*matcher.NoOverlapMultiplier)
				So(r0.Label, ShouldEqual, models.LabelCriticalMismatch)
			})

			Convey("Scores stay within [0, 100]: p="+fmt.Sprintf("%.3f", raw), func() {
				for _, r := range []models.MatchResult{r0, r1, r2} {
					So(r.AdjustedScore, ShouldBeBetweenOrEqual, 0.0, 100.0)
				}
			})

			Convey("Identical inputs give identical results: p="+fmt.Sprintf("%.3f", raw), func() {
				again, err := matcher.ComputeMatch(raw, many[0], many[1])
				So(err, ShouldBeNil)
				So(again, ShouldResemble, r2)
			})
		}
	})
}

func TestEmptyResumeIsCriticalMismatch(t *testing.T) {
	Convey("Given an empty resume", t, func() {
		ex := matcher.NewExtractor(taxonomy.Default())
		vec, resumeCats, err := ex.ExtractFeatures("", models.SideResume)
		So(err, ShouldBeNil)

		Convey("Then its vector is all zero and its category set empty", func() {
			So(resumeCats, ShouldBeEmpty)
			for i := 0; i < vec.Len(); i++ {
				So(vec.At(i), ShouldEqual, uint8(0))
			}
		})

		Convey("Then any job description yields a critical mismatch", func() {
			for _, jd := range []string{"python sql finance", "", "leadership and marketing"} {
				_, jdCats, err := ex.ExtractFeatures(jd, models.SideJob)
				So(err, ShouldBeNil)

				result, err := matcher.ComputeMatch(0.99, resumeCats, jdCats)
				So(err, ShouldBeNil)
				So(result.OverlapSize, ShouldEqual, 0)
				So(result.Label, ShouldEqual, models.LabelCriticalMismatch)
			}
		})
	})
}
