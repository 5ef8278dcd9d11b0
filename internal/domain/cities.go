package domain

// City is a reference urban area with its metropolitan population.
type City struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Population int64   `json:"population"`
}

// AreaType is the coarse land-use class used for background density.
type AreaType string

const (
	AreaMegacity  AreaType = "megacity"
	AreaMajorCity AreaType = "major_city"
	AreaCity      AreaType = "city"
	AreaSuburban  AreaType = "suburban"
	AreaRural     AreaType = "rural"
	AreaRemote    AreaType = "remote"
	AreaOcean     AreaType = "ocean"
)

// densities in people/km² per area type.
var densities = map[AreaType]float64{
	AreaMegacity:  15000,
	AreaMajorCity: 8000,
	AreaCity:      3000,
	AreaSuburban:  1000,
	AreaRural:     50,
	AreaRemote:    5,
	AreaOcean:     0,
}

// Density returns the background population density of an area type in
// people/km². Unknown types have zero density.
func (a AreaType) Density() float64 {
	return densities[a]
}

// MajorCities is the canonical reference dataset: the 50 largest
// metropolitan areas. Order matters: area classification takes the first
// city within range.
var MajorCities = []City{
	{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503, Population: 37400068},
	{Name: "Delhi", Lat: 28.7041, Lon: 77.1025, Population: 28514000},
	{Name: "Shanghai", Lat: 31.2304, Lon: 121.4737, Population: 25582000},
	{Name: "São Paulo", Lat: -23.5505, Lon: -46.6333, Population: 21650000},
	{Name: "Mexico City", Lat: 19.4326, Lon: -99.1332, Population: 21581000},
	{Name: "Cairo", Lat: 30.0444, Lon: 31.2357, Population: 20076000},
	{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777, Population: 19980000},
	{Name: "Beijing", Lat: 39.9042, Lon: 116.4074, Population: 19618000},
	{Name: "Dhaka", Lat: 23.8103, Lon: 90.4125, Population: 19578000},
	{Name: "Osaka", Lat: 34.6937, Lon: 135.5023, Population: 19281000},
	{Name: "New York", Lat: 40.7128, Lon: -74.0060, Population: 18819000},
	{Name: "Karachi", Lat: 24.8607, Lon: 67.0011, Population: 15400000},
	{Name: "Buenos Aires", Lat: -34.6037, Lon: -58.3816, Population: 14967000},
	{Name: "Chongqing", Lat: 29.4316, Lon: 106.9123, Population: 14838000},
	{Name: "Istanbul", Lat: 41.0082, Lon: 28.9784, Population: 14751000},
	{Name: "Kolkata", Lat: 22.5726, Lon: 88.3639, Population: 14681000},
	{Name: "Manila", Lat: 14.5995, Lon: 120.9842, Population: 13482000},
	{Name: "Lagos", Lat: 6.5244, Lon: 3.3792, Population: 13463000},
	{Name: "Rio de Janeiro", Lat: -22.9068, Lon: -43.1729, Population: 13293000},
	{Name: "Tianjin", Lat: 39.3434, Lon: 117.3616, Population: 13215000},
	{Name: "Kinshasa", Lat: -4.4419, Lon: 15.2663, Population: 13171000},
	{Name: "Guangzhou", Lat: 23.1291, Lon: 113.2644, Population: 12638000},
	{Name: "Los Angeles", Lat: 34.0522, Lon: -118.2437, Population: 12458000},
	{Name: "Moscow", Lat: 55.7558, Lon: 37.6173, Population: 12410000},
	{Name: "Shenzhen", Lat: 22.5431, Lon: 114.0579, Population: 11908000},
	{Name: "Lahore", Lat: 31.5204, Lon: 74.3587, Population: 11126000},
	{Name: "Bangalore", Lat: 12.9716, Lon: 77.5946, Population: 11440000},
	{Name: "Paris", Lat: 48.8566, Lon: 2.3522, Population: 10901000},
	{Name: "Bogotá", Lat: 4.7110, Lon: -74.0721, Population: 10574000},
	{Name: "Jakarta", Lat: -6.2088, Lon: 106.8456, Population: 10517000},
	{Name: "Chennai", Lat: 13.0827, Lon: 80.2707, Population: 10456000},
	{Name: "Lima", Lat: -12.0464, Lon: -77.0428, Population: 10391000},
	{Name: "Bangkok", Lat: 13.7563, Lon: 100.5018, Population: 10156000},
	{Name: "London", Lat: 51.5074, Lon: -0.1278, Population: 9046000},
	{Name: "Hyderabad", Lat: 17.3850, Lon: 78.4867, Population: 9746000},
	{Name: "Tehran", Lat: 35.6892, Lon: 51.3890, Population: 8896000},
	{Name: "Chicago", Lat: 41.8781, Lon: -87.6298, Population: 8864000},
	{Name: "Chengdu", Lat: 30.5728, Lon: 104.0668, Population: 8813000},
	{Name: "Nanjing", Lat: 32.0603, Lon: 118.7969, Population: 8245000},
	{Name: "Wuhan", Lat: 30.5928, Lon: 114.3055, Population: 8176000},
	{Name: "Ho Chi Minh City", Lat: 10.8231, Lon: 106.6297, Population: 8145000},
	{Name: "Luanda", Lat: -8.8383, Lon: 13.2344, Population: 7774000},
	{Name: "Ahmedabad", Lat: 23.0225, Lon: 72.5714, Population: 7681000},
	{Name: "Hong Kong", Lat: 22.3193, Lon: 114.1694, Population: 7429000},
	{Name: "Hangzhou", Lat: 30.2741, Lon: 120.1551, Population: 7236000},
	{Name: "Madrid", Lat: 40.4168, Lon: -3.7038, Population: 6497000},
	{Name: "Toronto", Lat: 43.6532, Lon: -79.3832, Population: 6082000},
	{Name: "Barcelona", Lat: 41.3851, Lon: 2.1734, Population: 5494000},
	{Name: "Miami", Lat: 25.7617, Lon: -80.1918, Population: 6066000},
	{Name: "Philadelphia", Lat: 39.9526, Lon: -75.1652, Population: 5695000},
}
