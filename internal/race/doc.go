// Package race extracts stage and one-day race results from procyclingstats
// race pages such as race/tour-de-france/2022/stage-1.
package race
