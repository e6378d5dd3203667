/*
Package connectorsdk is a client for the reelhub connector service.

Posting workers use it to find the social accounts an operator has
connected and to obtain a usable access token right before they call a
platform API:

	client := connectorsdk.NewClient("https://connector.internal", operatorJWT)

	accounts, err := client.ListAccounts(ctx, "tiktok")
	token, err := client.AccessToken(ctx, accounts.Accounts[0].ID)

AccessToken keeps tokens in memory until 30 seconds before the expiry the
service reported, so hot loops do not hit the service on every post.

When the platform no longer accepts the stored credentials the service
answers with reauthorization_required; callers detect it with
APIError.IsReauthorizationRequired and ask the owner to connect the
account again via BeginConnect.
*/
package connectorsdk
