// @title                       Hotel Booking API
// @version                     1.0
// @description                 Hotel catalog, room booking and admin inventory.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import "github.com/lakeview/hotel-booking/cmd/hotelbook/commands"

func main() {
	commands.Execute()
}
