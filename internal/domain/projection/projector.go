package projection

import (
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
)

// Game is one matchup to project. Book lines are home-relative; use NaN when
// a line was not supplied.
type Game struct {
	AwayTeam       string
	HomeTeam       string
	AwayLineup     lineup.Selection
	HomeLineup     lineup.Selection
	AwayBackToBack bool
	HomeBackToBack bool
	BookSpread     float64
	BookTotal      float64
}

// NoLine marks a book line as not supplied.
func NoLine() float64 {
	return math.NaN()
}

// SideProjection is the per-team half of a Result.
type SideProjection struct {
	TeamKey      string
	DisplayName  string
	IsHome       bool
	IsBackToBack bool
	Lineup       LineupBreakdown
	Strength     StrengthBreakdown
	// BaseScore is the scoring baseline the side's PPG chain produced.
	BaseScore float64
	Score     float64
	WinProb   float64
	// FairOdds is zero when the probability is 0 or 1.
	FairOdds int
}

// Result is a fresh projection; nothing in it is shared with the projector.
type Result struct {
	Away SideProjection
	Home SideProjection
	// Margin is away strength minus home strength, before clamping.
	Margin        float64
	BaselineScore float64
	ModelSpread   float64
	ModelTotal    float64
	BookSpread    float64
	BookTotal     float64
	// SpreadEdge and TotalEdge are NaN without a book line.
	SpreadEdge float64
	TotalEdge  float64
	SpreadPlay Play
	TotalPlay  Play
	WinnerKey  string
}

// Projector runs the projection against one stats snapshot. It holds no
// mutable state and is safe for concurrent use.
type Projector struct {
	model   Model
	teams   teamstats.Repository
	players player.Repository
}

func NewProjector(model Model, teams teamstats.Repository, players player.Repository) (*Projector, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if teams == nil {
		return nil, fmt.Errorf("%w: team repository is required", ErrInvalidModel)
	}

	return &Projector{
		model:   model,
		teams:   teams,
		players: players,
	}, nil
}

func (p *Projector) Model() Model {
	return p.model
}

func (p *Projector) LineupBreakdown(sel lineup.Selection) LineupBreakdown {
	return p.model.BreakDownLineup(sel, p.players)
}

func (p *Projector) Project(game Game) (Result, error) {
	awayRaw := strings.TrimSpace(game.AwayTeam)
	homeRaw := strings.TrimSpace(game.HomeTeam)
	if awayRaw == "" {
		return Result{}, fmt.Errorf("%w: away team", ErrEmptyTeamKey)
	}
	if homeRaw == "" {
		return Result{}, fmt.Errorf("%w: home team", ErrEmptyTeamKey)
	}

	awayKey := p.teams.CanonicalTeamKey(awayRaw)
	homeKey := p.teams.CanonicalTeamKey(homeRaw)
	if awayKey == "" || homeKey == "" {
		return Result{}, fmt.Errorf("%w: team name has no usable characters", ErrEmptyTeamKey)
	}
	if awayKey == homeKey {
		return Result{}, fmt.Errorf("%w: %s", ErrSameTeam, awayKey)
	}
	if math.IsInf(game.BookSpread, 0) || math.IsInf(game.BookTotal, 0) {
		return Result{}, fmt.Errorf("%w: book lines must be finite", ErrMalformedInput)
	}

	awayStats := p.teams.GetTeamStats(awayKey)
	homeStats := p.teams.GetTeamStats(homeKey)
	if err := awayStats.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: away: %w", ErrMalformedInput, err)
	}
	if err := homeStats.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: home: %w", ErrMalformedInput, err)
	}
	league := p.teams.LeagueAverages().Normalize()

	away := p.side(awayKey, awayStats, game.AwayLineup, false, game.AwayBackToBack, league)
	home := p.side(homeKey, homeStats, game.HomeLineup, true, game.HomeBackToBack, league)

	margin := away.Strength.Total() - home.Strength.Total()
	baseline := (away.BaseScore + home.BaseScore) / 2

	away.Score = p.model.clampScore(baseline + margin/2)
	home.Score = p.model.clampScore(baseline - margin/2)

	// Probability follows the raw margin so clamping never flattens it.
	away.WinProb = WinProbability(margin, p.model.LogisticScale)
	home.WinProb = 1 - away.WinProb
	away.FairOdds, _ = FairAmericanOdds(away.WinProb)
	home.FairOdds, _ = FairAmericanOdds(home.WinProb)

	out := Result{
		Away:          away,
		Home:          home,
		Margin:        margin,
		BaselineScore: baseline,
		ModelSpread:   home.Score - away.Score,
		ModelTotal:    home.Score + away.Score,
		BookSpread:    game.BookSpread,
		BookTotal:     game.BookTotal,
		SpreadEdge:    math.NaN(),
		TotalEdge:     math.NaN(),
		WinnerKey:     home.TeamKey,
	}
	if away.Score > home.Score {
		out.WinnerKey = away.TeamKey
	}
	if !math.IsNaN(game.BookSpread) {
		out.SpreadEdge = out.ModelSpread - game.BookSpread
	}
	if !math.IsNaN(game.BookTotal) {
		out.TotalEdge = out.ModelTotal - game.BookTotal
	}
	out.SpreadPlay = EvaluateSpread(out.ModelSpread, game.BookSpread, p.model.SpreadMinEdge)
	out.TotalPlay = EvaluateTotal(out.ModelTotal, game.BookTotal, p.model.TotalMinEdge)

	return out, nil
}

func (p *Projector) side(
	teamKey string,
	stats teamstats.Snapshot,
	sel lineup.Selection,
	isHome bool,
	isBackToBack bool,
	league teamstats.LeagueAverages,
) SideProjection {
	breakdown := p.model.BreakDownLineup(sel, p.players)
	name := stats.DisplayName
	if name == "" {
		name = teamKey
	}

	return SideProjection{
		TeamKey:      teamKey,
		DisplayName:  name,
		IsHome:       isHome,
		IsBackToBack: isBackToBack,
		Lineup:       breakdown,
		Strength:     p.model.BreakDownStrength(stats, breakdown.LineupPER, isHome, isBackToBack, league),
		BaseScore:    baseScore(stats, league),
	}
}

// baseScore falls back from recent PPG to season PPG to half the league
// scoring average.
func baseScore(stats teamstats.Snapshot, league teamstats.LeagueAverages) float64 {
	if known(stats.PPGRecent) && stats.PPGRecent > 0 {
		return stats.PPGRecent
	}
	if known(stats.PPGSeason) && stats.PPGSeason > 0 {
		return stats.PPGSeason
	}
	return league.HalfPoints()
}
