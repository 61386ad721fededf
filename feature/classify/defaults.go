package classify

// DefaultRuleSets returns the built-in classification vocabulary, compiled.
// The tables mirror the distributor's naming conventions: feed descriptions
// are terse uppercase strings like "GLOCK 19 GEN5 9MM 15RD" or
// "FED 223REM 55GR FMJ 20/500".
//
// A YAML rule file loaded via LoadRuleSets replaces these wholesale.
func DefaultRuleSets() []RuleSet {
	sets := []RuleSet{
		caliberRules(),
		actionTypeRules(),
		finishRules(),
		categoryRules(),
		fflRules(),
	}
	if err := CompileAll(sets); err != nil {
		// The built-in tables are tested; a bad pattern here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return sets
}

func caliberRules() RuleSet {
	return RuleSet{
		Attribute: AttrCaliber,
		Rules: []Rule{
			// Handgun calibers. More specific patterns carry higher
			// priority so "357SIG" never resolves as ".357 Magnum".
			{ID: "cal-357sig", Pattern: `357\s?SIG`, Value: ".357 SIG", Priority: 20},
			{ID: "cal-357mag", Pattern: `357\s?(MAG|MAGNUM)`, Value: ".357 Magnum", Priority: 15},
			{ID: "cal-380acp", Pattern: `380\s?(ACP|AUTO)`, Value: ".380 ACP", Priority: 15},
			{ID: "cal-9mm", Pattern: `9\s?MM|9X19`, Value: "9mm", Priority: 10},
			{ID: "cal-10mm", Pattern: `10\s?MM`, Value: "10mm", Priority: 15},
			{ID: "cal-40sw", Pattern: `40\s?S&W|40SW`, Value: ".40 S&W", Priority: 15},
			{ID: "cal-45acp", Pattern: `45\s?(ACP|AUTO)`, Value: ".45 ACP", Priority: 15},
			{ID: "cal-45colt", Pattern: `45\s?(LC|COLT)`, Value: ".45 Colt", Priority: 15},
			{ID: "cal-38spl", Pattern: `38\s?(SPL|SPEC|SPECIAL)`, Value: ".38 Special", Priority: 15},
			{ID: "cal-44mag", Pattern: `44\s?(MAG|MAGNUM)`, Value: ".44 Magnum", Priority: 15},
			{ID: "cal-57x28", Pattern: `5\.7\s?X\s?28`, Value: "5.7x28", Priority: 20},

			// Rimfire
			{ID: "cal-22lr", Pattern: `22\s?LR`, Value: ".22 LR", Priority: 15},
			{ID: "cal-22wmr", Pattern: `22\s?(WMR|MAG)`, Value: ".22 WMR", Priority: 10},
			{ID: "cal-17hmr", Pattern: `17\s?HMR`, Value: ".17 HMR", Priority: 15},

			// Rifle calibers
			{ID: "cal-556", Pattern: `5\.56|556\s?(NATO)?`, Value: "5.56 NATO", Priority: 15},
			{ID: "cal-223", Pattern: `223\s?(REM|WYLDE)?`, Value: ".223 Remington", Priority: 10},
			{ID: "cal-308", Pattern: `308\s?(WIN)?`, Value: ".308 Winchester", Priority: 15},
			{ID: "cal-762x39", Pattern: `7\.62\s?X\s?39`, Value: "7.62x39", Priority: 20},
			{ID: "cal-762x51", Pattern: `7\.62\s?X\s?51`, Value: ".308 Winchester", Priority: 20},
			{ID: "cal-300blk", Pattern: `300\s?(BLK|BLACKOUT|AAC)`, Value: ".300 Blackout", Priority: 15},
			{ID: "cal-65cm", Pattern: `6\.5\s?(CM|CREED|CREEDMOOR)`, Value: "6.5 Creedmoor", Priority: 15},
			{ID: "cal-3006", Pattern: `30-06`, Value: ".30-06 Springfield", Priority: 15},
			{ID: "cal-3030", Pattern: `30-30`, Value: ".30-30 Winchester", Priority: 15},
			{ID: "cal-50bmg", Pattern: `50\s?BMG`, Value: ".50 BMG", Priority: 15},

			// Shotgun gauges
			{ID: "cal-12ga", Pattern: `12\s?GA(UGE)?`, Value: "12 Gauge", Priority: 15},
			{ID: "cal-20ga", Pattern: `20\s?GA(UGE)?`, Value: "20 Gauge", Priority: 15},
			{ID: "cal-28ga", Pattern: `28\s?GA(UGE)?`, Value: "28 Gauge", Priority: 15},
			{ID: "cal-410", Pattern: `410\s?(GA|BORE)?`, Value: ".410 Bore", Priority: 10},
		},
	}
}

func actionTypeRules() RuleSet {
	return RuleSet{
		Attribute: AttrActionType,
		Rules: []Rule{
			{ID: "act-striker", Pattern: `STRIKER`, Value: "Striker Fired", Priority: 15},
			{ID: "act-sa-da", Pattern: `DA/SA|SA/DA`, Value: "DA/SA", Priority: 20},
			{ID: "act-dao", Pattern: `\bDAO\b|DOUBLE\s?ACTION\s?ONLY`, Value: "Double Action Only", Priority: 20},
			{ID: "act-sao", Pattern: `\bSAO\b|SINGLE\s?ACTION\s?ONLY`, Value: "Single Action Only", Priority: 20},
			{ID: "act-single", Pattern: `SINGLE\s?ACTION|\bSA\b`, Value: "Single Action", Priority: 10},
			{ID: "act-double", Pattern: `DOUBLE\s?ACTION|\bDA\b`, Value: "Double Action", Priority: 10},
			{ID: "act-bolt", Pattern: `BOLT\s?(ACTION)?`, Value: "Bolt Action", Priority: 15},
			{ID: "act-lever", Pattern: `LEVER`, Value: "Lever Action", Priority: 15},
			{ID: "act-pump", Pattern: `PUMP`, Value: "Pump Action", Priority: 15},
			{ID: "act-break", Pattern: `BREAK\s?(OPEN|ACTION)|O/U|OVER\s?UNDER|SXS|SIDE\s?BY\s?SIDE`, Value: "Break Action", Priority: 15},
			{ID: "act-semi", Pattern: `SEMI-?AUTO|\bSEMI\b`, Value: "Semi-Auto", Priority: 10},
		},
	}
}

func finishRules() RuleSet {
	return RuleSet{
		Attribute: AttrFinish,
		Rules: []Rule{
			{ID: "fin-fde", Pattern: `\bFDE\b|FLAT\s?DARK\s?EARTH`, Value: "Flat Dark Earth", Priority: 15},
			{ID: "fin-odg", Pattern: `\bODG\b|OD\s?GREEN|OLIVE\s?DRAB`, Value: "OD Green", Priority: 15},
			{ID: "fin-stainless", Pattern: `STAINLESS|\bSS\b|\bSTS\b`, Value: "Stainless", Priority: 15},
			{ID: "fin-nickel", Pattern: `NICKEL`, Value: "Nickel", Priority: 15},
			{ID: "fin-cerakote", Pattern: `CERAKOTE`, Value: "Cerakote", Priority: 15},
			{ID: "fin-tungsten", Pattern: `TUNGSTEN`, Value: "Tungsten", Priority: 15},
			{ID: "fin-bronze", Pattern: `BURNT\s?BRONZE`, Value: "Burnt Bronze", Priority: 15},
			{ID: "fin-hardcoat", Pattern: `HARD\s?COAT|ANODIZED`, Value: "Anodized", Priority: 10},
			// BLK is ubiquitous shorthand but also appears in "300 BLK",
			// so the caliber usage must not read as a finish.
			{ID: "fin-black", Pattern: `\bBLACK\b|(?:^|[^0-9]\s)BLK\b`, Value: "Black", Priority: 5},
		},
	}
}

// categoryRules decides whether a product is a traditional handgun.
// Rifle-platform indicators disqualify: an "AR-15 PISTOL" or a stripped
// lower is not a handgun no matter how many pistol keywords it carries.
// This is the single most-repaired misclassification in the catalog's
// history, hence the dedicated disqualifier list.
func categoryRules() RuleSet {
	return RuleSet{
		Attribute:         AttrCategory,
		DisqualifiedValue: "",
		Disqualifiers: []Rule{
			{ID: "cat-dq-ar-platform", Pattern: `\bAR-?\d+\b|\bAK-?\d+\b`, Value: ""},
			{ID: "cat-dq-receiver", Pattern: `UPPER|LOWER|RECEIVER`, Value: ""},
			{ID: "cat-dq-sbr", Pattern: `\bSBR\b|SHORT\s?BARREL`, Value: ""},
			{ID: "cat-dq-brace", Pattern: `PISTOL\s?BRACE|STABILIZING\s?BRACE`, Value: ""},
			{ID: "cat-dq-accessory", Pattern: `HOLSTER|MAGAZINE|\bMAG\b|GRIP|SIGHT|SCOPE|OPTIC|BARREL|SLIDE|TRIGGER|SPRING|MOUNT|\bKIT\b|CASE|SLING|LIGHT|LASER`, Value: ""},
		},
		Rules: []Rule{
			{ID: "cat-handgun-term", Pattern: `PISTOL|REVOLVER|HANDGUN`, Value: "Handguns", Priority: 10},
			{ID: "cat-handgun-glock", Pattern: `GLOCK\s?\d+|\bG\d{2}\b`, Value: "Handguns", Priority: 15},
			{ID: "cat-handgun-sig", Pattern: `\bP2\d{2}\b|\bP3\d{2}\b|\bP938\b`, Value: "Handguns", Priority: 15},
			{ID: "cat-handgun-sw", Pattern: `M&P|SHIELD|BODYGUARD`, Value: "Handguns", Priority: 15},
			{ID: "cat-handgun-1911", Pattern: `\b1911\b`, Value: "Handguns", Priority: 15},
			{ID: "cat-shotgun", Pattern: `SHOTGUN|\d{2}\s?GA(UGE)?\b`, Value: "Shotguns", Priority: 12},
			{ID: "cat-rifle", Pattern: `RIFLE|CARBINE|BOLT\s?ACTION`, Value: "Rifles", Priority: 12},
		},
		// Department 1 is the distributor's handgun department; an item
		// there with no disqualifier and no better match stays a handgun.
		Fallback: &Fallback{
			ID:             "cat-fb-dept-handgun",
			Value:          "Handguns",
			WhenDepartment: []string{"1", "01", "2", "02"},
		},
	}
}

func fflRules() RuleSet {
	return RuleSet{
		Attribute: AttrFFL,
		Rules: []Rule{
			{ID: "ffl-nfa", Pattern: `SUPPRESSOR|SILENCER|\bSBR\b|\bSBS\b`, Value: "true", Priority: 15},
			{ID: "ffl-receiver", Pattern: `STRIPPED\s?(LOWER|RECEIVER)|SERIALIZED`, Value: "true", Priority: 10},
			{ID: "ffl-frame", Pattern: `\bFRAME\b.*\bFFL\b|\bFFL\b`, Value: "true", Priority: 5},
		},
	}
}
