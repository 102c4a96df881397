package placer

// Microstates：栅格分辨率下容易被漏掉的小国与岛国，坐标为真实经纬度
var Microstates = []Placement{
	{Name: "Vatican City", Lng: 12.45, Lat: 41.90, Code: "VA"},
	{Name: "Monaco", Lng: 7.40, Lat: 43.73, Code: "MC"},
	{Name: "San Marino", Lng: 12.46, Lat: 43.94, Code: "SM"},
	{Name: "Liechtenstein", Lng: 9.55, Lat: 47.14, Code: "LI"},
	{Name: "Andorra", Lng: 1.52, Lat: 42.51, Code: "AD"},
	{Name: "Luxembourg", Lng: 6.13, Lat: 49.81, Code: "LU"},
	{Name: "Malta", Lng: 14.37, Lat: 35.94, Code: "MT"},
	{Name: "Maldives", Lng: 73.22, Lat: 3.20, Code: "MV"},
	{Name: "Bahrain", Lng: 50.55, Lat: 26.07, Code: "BH"},
	{Name: "Singapore", Lng: 103.82, Lat: 1.35, Code: "SG"},
	{Name: "Brunei", Lng: 114.73, Lat: 4.53, Code: "BN"},
	{Name: "Nauru", Lng: 166.93, Lat: -0.53, Code: "NR"},
	{Name: "Tuvalu", Lng: 179.19, Lat: -8.52, Code: "TV"},
	{Name: "Palau", Lng: 134.58, Lat: 7.51, Code: "PW"},
	{Name: "Marshall Islands", Lng: 171.18, Lat: 7.10, Code: "MH"},
	{Name: "Micronesia", Lng: 158.25, Lat: 6.92, Code: "FM"},
	{Name: "Kiribati", Lng: 173.0, Lat: 1.87, Code: "KI"},
	{Name: "Tonga", Lng: 175.20, Lat: -21.18, Code: "TO"},
	{Name: "Samoa", Lng: 172.10, Lat: -13.76, Code: "WS"},
	{Name: "Vanuatu", Lng: 167.0, Lat: -15.38, Code: "VU"},
	{Name: "Comoros", Lng: 43.87, Lat: -11.70, Code: "KM"},
	{Name: "Sao Tome and Principe", Lng: 6.61, Lat: 0.19, Code: "ST"},
	{Name: "Cape Verde", Lng: -23.61, Lat: 15.12, Code: "CV"},
	{Name: "Seychelles", Lng: 55.49, Lat: -4.68, Code: "SC"},
	{Name: "Mauritius", Lng: 57.55, Lat: -20.35, Code: "MU"},
	{Name: "Djibouti", Lng: 42.59, Lat: 11.83, Code: "DJ"},
	{Name: "Qatar", Lng: 51.18, Lat: 25.35, Code: "QA"},
	{Name: "Kuwait", Lng: 47.48, Lat: 29.37, Code: "KW"},
	{Name: "Timor-Leste", Lng: 125.73, Lat: -8.87, Code: "TL"},
	{Name: "Belize", Lng: -88.49, Lat: 17.19, Code: "BZ"},
	{Name: "El Salvador", Lng: -88.90, Lat: 13.79, Code: "SV"},
	{Name: "Trinidad and Tobago", Lng: -61.22, Lat: 10.69, Code: "TT"},
	{Name: "Barbados", Lng: -59.54, Lat: 13.19, Code: "BB"},
	{Name: "Saint Lucia", Lng: -60.98, Lat: 13.91, Code: "LC"},
	{Name: "Grenada", Lng: -61.67, Lat: 12.12, Code: "GD"},
	{Name: "Saint Vincent and the Grenadines", Lng: -61.20, Lat: 12.98, Code: "VC"},
	{Name: "Antigua and Barbuda", Lng: -61.80, Lat: 17.07, Code: "AG"},
	{Name: "Saint Kitts and Nevis", Lng: -62.78, Lat: 17.33, Code: "KN"},
	{Name: "Dominica", Lng: -61.37, Lat: 15.41, Code: "DM"},
	{Name: "Bahamas", Lng: -77.39, Lat: 24.28, Code: "BS"},
}
