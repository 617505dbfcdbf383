// Package analysis provides diagnostics for stochastic trajectories and
// ensembles:
//
//   - [EnsembleMean], [Spread], [RMSE]: twin-experiment statistics
//   - [PowerSpectrum]: FFT power spectrum of one site's time series
//   - [LyapunovExponent]: largest exponent of the random dynamical system,
//     two nearby trajectories driven by the same noise
//
// # Twin Experiments
//
// The truth twin and the ensemble are independent realisations of the same
// random model; the RMSE of the ensemble mean against the truth should be
// of the same size as the ensemble spread:
//
//	mean := analysis.EnsembleMean(members)
//	rmse := analysis.RMSE(mean, truth)
//	spread := analysis.Spread(members)
package analysis
