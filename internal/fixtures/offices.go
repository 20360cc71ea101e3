package fixtures

import "github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"

// OfficeLocations is the registered office table, in resolution order.
// Several entries sit outside geo.AllowedRegion and can never be matched;
// they are kept so the table mirrors the deployed office list.
var OfficeLocations = []geo.OfficeLocation{
	{Name: "AP MARITIME BOARD HEAD OFFICE", Latitude: 16.4228036, Longitude: 80.562812},
	{Name: "APMB LA KAVALI", Latitude: 14.8860989, Longitude: 79.985184},
	{Name: "APMB VIZAG DHC", Latitude: 17.744005, Longitude: 83.312909},
	{Name: "APMB, Mangalagiri", Latitude: 16.4962219, Longitude: 80.586393},
	{Name: "BPDCL PORT SITE", Latitude: 18.5334655, Longitude: 84.325332},
	{Name: "Jawahar Jetty - Kakinada", Latitude: 16.9396366, Longitude: 82.2433},
	{Name: "Juvulladinne FH", Latitude: 14.8039829, Longitude: 80.07975},
	{Name: "Machilipatnam Port Office", Latitude: 16.1856213, Longitude: 81.141544},
	{Name: "Marine Division", Latitude: 16.9550966, Longitude: 82.266864},
	{Name: "MPDCL PORT SITE", Latitude: 16.1955344, Longitude: 81.147925},
	{Name: "MTP F H", Latitude: 16.1754636, Longitude: 81.163208},
	{Name: "PO.MTM Tab", Latitude: 16.2156543, Longitude: 81.207175},
	{Name: "PORT OFFICE RPDCL", Latitude: 15.0111129, Longitude: 80.04796},
	{Name: "Port Office, Kakinada", Latitude: 16.9549063, Longitude: 82.266887},
	{Name: "RPDCL PORT SITE", Latitude: 15.0111129, Longitude: 80.04796},
	{Name: "RR Colony Mondivaripalem", Latitude: 15.0486275, Longitude: 80.021878},
	{Name: "Sample Test Location", Latitude: 16.5061743, Longitude: 80.6480153},
}
