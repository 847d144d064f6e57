package memory

import (
	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/stats"
)

const SeedSeason = 2025

// SeedPlayers returns a small roster for local development without a
// database. IDs follow the same slp- prefix the sync pipeline uses.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "slp-4046", SleeperID: "4046", EspnID: "3139477", Name: "Patrick Mahomes", Position: player.PositionQB, Team: "KC", Active: true, ByeWeek: 6},
		{ID: "slp-4881", SleeperID: "4881", EspnID: "3918298", Name: "Josh Allen", Position: player.PositionQB, Team: "BUF", Active: true, ByeWeek: 12},
		{ID: "slp-4034", SleeperID: "4034", EspnID: "3117251", Name: "Christian McCaffrey", Position: player.PositionRB, Team: "SF", Active: true, ByeWeek: 9},
		{ID: "slp-9509", SleeperID: "9509", EspnID: "4429795", Name: "Bijan Robinson", Position: player.PositionRB, Team: "ATL", Active: true, ByeWeek: 11},
		{ID: "slp-6794", SleeperID: "6794", EspnID: "4262921", Name: "Justin Jefferson", Position: player.PositionWR, Team: "MIN", Active: true, ByeWeek: 13},
		{ID: "slp-8112", SleeperID: "8112", Name: "Amon-Ra St. Brown", Position: player.PositionWR, Team: "DET", Active: true, ByeWeek: 5},
		{ID: "slp-4217", SleeperID: "4217", EspnID: "3116365", Name: "George Kittle", Position: player.PositionTE, Team: "SF", Active: true, ByeWeek: 9},
		{ID: "slp-7523", SleeperID: "7523", Name: "Travis Kelce", Position: player.PositionTE, Team: "KC", Active: true, ByeWeek: 6},
		{ID: "slp-1264", SleeperID: "1264", Name: "Justin Tucker", Position: player.PositionK, Team: "BAL", Active: true, ByeWeek: 14},
		{ID: "slp-DAL", SleeperID: "DAL", Name: "DAL D/ST", Position: player.PositionDST, Team: "DAL", Active: true, ByeWeek: 7},
	}
}

func SeedWeeklyStats() []stats.WeeklyLine {
	return []stats.WeeklyLine{
		{PlayerID: "slp-4046", Season: SeedSeason, Week: 1, PassingYards: 312, PassingTDs: 3, Interceptions: 1},
		{PlayerID: "slp-4046", Season: SeedSeason, Week: 2, PassingYards: 278, PassingTDs: 2},
		{PlayerID: "slp-4881", Season: SeedSeason, Week: 1, PassingYards: 265, PassingTDs: 2, RushingYards: 44, RushingTDs: 1},
		{PlayerID: "slp-4881", Season: SeedSeason, Week: 2, PassingYards: 301, PassingTDs: 3, Interceptions: 2},
		{PlayerID: "slp-4034", Season: SeedSeason, Week: 1, RushingYards: 118, RushingTDs: 1, Receptions: 5, ReceivingYards: 39},
		{PlayerID: "slp-4034", Season: SeedSeason, Week: 2, RushingYards: 89, Receptions: 7, ReceivingYards: 64, ReceivingTDs: 1},
		{PlayerID: "slp-9509", Season: SeedSeason, Week: 1, RushingYards: 96, RushingTDs: 1, Receptions: 4, ReceivingYards: 28},
		{PlayerID: "slp-6794", Season: SeedSeason, Week: 1, Receptions: 9, ReceivingYards: 151, ReceivingTDs: 1},
		{PlayerID: "slp-6794", Season: SeedSeason, Week: 2, Receptions: 6, ReceivingYards: 83},
		{PlayerID: "slp-8112", Season: SeedSeason, Week: 1, Receptions: 8, ReceivingYards: 97, ReceivingTDs: 1, FumblesLost: 1},
		{PlayerID: "slp-4217", Season: SeedSeason, Week: 1, Receptions: 5, ReceivingYards: 62},
		{PlayerID: "slp-7523", Season: SeedSeason, Week: 1, Receptions: 6, ReceivingYards: 71, ReceivingTDs: 1},
	}
}
