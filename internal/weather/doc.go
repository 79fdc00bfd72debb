// Package weather queries the OpenWeatherMap current-weather endpoint for
// the place name and next-sunrise instant at a geographic position.
//
// Only the "name" and "sys.sunrise" fields of the response are consumed.
// Failures are classified as ErrNetwork, ErrBadResponse or ErrServiceStatus
// so the orchestrator only ever sees semantic outcomes.
package weather
