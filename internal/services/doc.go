// Package services defines the [LeaderboardService] port used by the pipeline and implements it over
// HTTP with [GatewayService].
//
// # LeaderboardService Interface
//
// The pipeline never talks to the game platform directly. It asks a [LeaderboardService] for leaderboard
// ranges, for the lazily paged catalog of ready-to-use workshop items, and for player display names.
// Tests substitute a deterministic fake.
//
// # Gateway Implementation
//
// [GatewayService] talks to a small HTTP gateway that wraps the platform SDK:
//
//	GET /leaderboards/{name}/entries?start=S&end=E
//	GET /workshop/items?type=ready_to_use&match=any&tags=Sprint,Challenge,Stunt&page=P
//	GET /players/{steam_id}/name
//
// When a token URL is configured the [http.Client] comes from [clientcredentials.Config], which fetches
// and refreshes access tokens on its own. An optional [rate.Limiter] paces every request.
//
// # Error Handling
//
// Gateway failures are wrapped in sentinel errors from the shared package:
//   - [shared.ErrLeaderboardAbsent] : leaderboard name unknown to the gateway (404)
//   - [shared.ErrServiceUnavailable] : gateway or SDK not ready (503)
//   - [shared.ErrAPIRequest] : any other non-2xx response, with the gateway's detail message
//   - [shared.ErrCatalogQuery] : a workshop page could not be fetched
package services
