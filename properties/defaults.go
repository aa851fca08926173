package properties

// Header is written above the defaults when no server.properties exists yet.
var Header = []string{
	"#Minecraft server properties",
	"#Generated by minecraft-bootstrap",
}

// Defaults mirrors the file a vanilla dedicated server writes on first start.
var Defaults = []Property{
	// Gameplay
	{"gamemode", "survival"},
	{"force-gamemode", "false"},
	{"difficulty", "easy"},
	{"hardcore", "false"},
	{"pvp", "true"},
	{"allow-flight", "false"},
	{"allow-nether", "true"},
	{"spawn-animals", "true"},
	{"spawn-monsters", "true"},
	{"spawn-npcs", "true"},
	{"spawn-protection", "16"},
	{"generate-structures", "true"},
	{"generator-settings", "{}"},
	{"level-name", "world"},
	{"level-seed", ""},
	{"level-type", `minecraft\:normal`},
	{"max-world-size", "29999984"},
	{"view-distance", "10"},
	{"simulation-distance", "10"},
	{"entity-broadcast-range-percentage", "100"},
	{"enable-command-block", "false"},
	{"function-permission-level", "2"},
	{"op-permission-level", "4"},
	{"max-players", "20"},
	{"player-idle-timeout", "0"},
	{"motd", "A Minecraft Server"},
	{"white-list", "false"},
	{"enforce-whitelist", "false"},
	{"resource-pack", ""},
	{"resource-pack-prompt", ""},
	{"resource-pack-sha1", ""},
	{"require-resource-pack", "false"},

	// Network
	{"server-ip", ""},
	{"server-port", "25565"},
	{"online-mode", "true"},
	{"enforce-secure-profile", "true"},
	{"prevent-proxy-connections", "false"},
	{"network-compression-threshold", "256"},
	{"rate-limit", "0"},
	{"max-tick-time", "60000"},
	{"use-native-transport", "true"},
	{"enable-status", "true"},
	{"sync-chunk-writes", "true"},

	// RCON and query
	{"enable-rcon", "false"},
	{"rcon.port", "25575"},
	{"rcon.password", ""},
	{"broadcast-rcon-to-ops", "true"},
	{"broadcast-console-to-ops", "true"},
	{"enable-query", "false"},
	{"query.port", "25565"},
}

func isKnownKey(key string) bool {
	for _, p := range Defaults {
		if p.Key == key {
			return true
		}
	}
	return false
}

func defaultKeys() []string {
	keys := make([]string, len(Defaults))
	for i, p := range Defaults {
		keys[i] = p.Key
	}
	return keys
}
