package payout

import "math"

// Board dimensions shared with the engine's layout sampling.
const (
	minesBoardCells = 25 // 5x5 grid
	towerFloors     = 10 // 10 floors of 5 cells
	vaultFloors     = 10 // 10 floors of 2 cells
	cryptMaxReveals = 2  // 15 cells, two picks
	balloonMaxPumps = 45 // 1.0 + 45*0.2 = 10.0
)

// minesTables maps mine count (2-24 on a 5x5 board) to the multiplier per
// opened safe cell. Each table has exactly 25-risk entries.
var minesTables = map[int][]float64{
	2:  {1.10, 1.22, 1.36, 1.52, 1.71, 1.93, 2.19, 2.50, 2.87, 3.32, 3.87, 4.55, 5.39, 6.45, 7.80, 9.55, 11.85, 14.95, 19.25, 25.25, 33.75, 55.75, 83.25},
	3:  {1.15, 1.33, 1.55, 1.82, 2.15, 2.56, 3.07, 3.72, 4.55, 5.62, 7.02, 8.87, 11.35, 14.70, 25.30, 36.70, 49.80, 79.10, 99.80, 137.50, 195.00, 415.00},
	4:  {1.20, 1.44, 1.73, 2.07, 2.49, 3.00, 3.62, 4.38, 5.32, 6.50, 7.98, 9.85, 14.20, 19.20, 27.10, 35.20, 43.80, 59.50, 85.20, 235.80, 678.80},
	5:  {1.25, 1.56, 1.95, 2.44, 3.05, 3.81, 4.77, 5.98, 7.50, 9.42, 11.85, 19.95, 28.90, 39.95, 55.40, 79.70, 123.40, 163.20, 281.10, 1004.00},
	6:  {1.30, 1.69, 2.20, 3.86, 5.71, 8.83, 11.28, 16.17, 27.62, 46.81, 78.95, 135.34, 230.34, 339.44, 551.27, 966.65, 2386.65, 5112.64, 10046.43},
	7:  {1.35, 1.82, 2.46, 3.82, 5.48, 8.05, 15.16, 26.02, 67.88, 120.08, 227.11, 536.60, 1049.41, 3366.70, 7090.05, 15121.57, 26004.12, 40021.56},
	8:  {1.40, 2.16, 3.34, 4.84, 7.38, 12.53, 25.54, 74.76, 200.66, 528.93, 1740.50, 5756.70, 17979.38, 39911.13, 135655.58, 245617.82, 589204.94},
	9:  {1.45, 2.90, 4.05, 7.42, 13.41, 23.29, 45.47, 145.53, 298.32, 741.06, 1959.54, 4786.33, 10125.18, 36181.51, 56263.19, 145381.62},
	10: {1.60, 3.10, 5.38, 8.06, 18.59, 38.39, 89.08, 295.62, 738.43, 2557.65, 9886.47, 29129.71, 75194.56, 126291.84, 353837.76},
	11: {1.80, 4.20, 7.10, 19.55, 60.49, 345.78, 1526.84, 5642.95, 12768.72, 45109.95, 156175.92, 287931.47, 478750.35, 778420.56},
	12: {1.85, 4.39, 8.91, 26.35, 84.20, 424.14, 2341.03, 9769.76, 21118.59, 86201.60, 256342.72, 647582.62, 2467990.46},
	13: {1.90, 5.24, 10.83, 35.50, 125.90, 834.02, 5661.23, 21110.22, 67198.39, 249357.10, 797642.78, 2671157.00},
	14: {2.10, 6.61, 15.86, 53.03, 284.76, 1447.04, 23889.38, 118769.82, 354622.66, 975613.05, 2771164.80},
	15: {2.30, 7.00, 23.00, 75.00, 432.00, 2634.00, 55128.00, 274256.00, 536512.00, 1000024.00},
	16: {2.70, 8.41, 31.26, 125.45, 340.84, 2685.77, 18860.12, 36378.25, 246794.33},
	17: {3.30, 13.84, 56.65, 230.43, 501.54, 1138.39, 12496.46, 146548.81},
	18: {3.70, 18.29, 77.17, 270.98, 1640.36, 14800.03, 35340.47},
	19: {4.70, 23.76, 136.82, 433.18, 2579.63, 19861.11},
	20: {6.50, 36.25, 215.63, 1239.06, 9787.66},
	21: {7.60, 45.76, 1317.58, 4500.70},
	22: {8.70, 177.29, 1999.68},
	23: {10.80, 287.84},
	24: {25.90},
}

// towerTables maps dragons per floor (1-4 out of 5 cells) to the multiplier
// per climbed floor.
var towerTables = map[int][]float64{
	1: {1.2, 1.5, 1.8, 2.4, 3.2, 3.9, 4.7, 5.8, 7.0, 8.9},
	2: {1.6, 2.4, 4.2, 7.0, 12.5, 20.0, 37.0, 55.0, 90.0, 160.0},
	3: {2.3, 6.0, 16.0, 42.0, 90.0, 160.0, 270.0, 450.0, 850.0, 1500.0},
	4: {4.7, 24.0, 120.0, 400.0, 1600.0, 3000.0, 7500.0, 15000.0, 45000.0, 100000.0},
}

// vaultTable: one dynamite cell per floor of two, multiplier x1.9 per floor.
var vaultTable = []float64{1.9, 3.61, 6.86, 13.03, 24.76, 47.04, 89.38, 169.82, 322.66, 613.05}

// cryptTable: 15 cells of which 5 hold treasure, two picks allowed.
var cryptTable = []float64{1.9, 3.9}

// balloonTable: +0.2 per pump starting from 1.0, popping precommitted,
// capped at 10.0.
func balloonTable() []float64 {
	mults := make([]float64, balloonMaxPumps)
	for i := range mults {
		mults[i] = math.Round((1.0+0.2*float64(i+1))*10) / 10
	}
	return mults
}
