package inventory

// Built-in weapons. Content directories may extend or replace these.
var (
	UnarmedBrawl = &WeaponDef{
		ID: "unarmed", Name: "Unarmed (Brawl)", Era: EraClassic,
		Skill: "Fighting (Brawl)", Damage: "(1d6+1)/2+{DB}",
		AttacksPerRound: "1",
	}
	Knife = &WeaponDef{
		ID: "knife", Name: "Knife", Era: EraClassic,
		Skill: "Fighting (Knife)", Damage: "1d4+{DB}", ImpaleDamage: "4+1d4+{DB}", Impaling: true,
		AttacksPerRound: "1",
	}
	Club = &WeaponDef{
		ID: "club", Name: "Club", Era: EraClassic,
		Skill: "Fighting (Club)", Damage: "1d6+{DB}",
		AttacksPerRound: "1",
	}
	Handgun = &WeaponDef{
		ID: "handgun", Name: "Handgun", Era: EraClassic,
		Skill: "Firearms (Handgun)", Damage: "1d10", ImpaleDamage: "10+1d10", Impaling: true,
		Range:           &RangeBands{Short: 15, Medium: 30, Long: 60},
		AttacksPerRound: "1 (3)", Ammo: 6, Malfunction: 100,
	}
	Revolver38 = &WeaponDef{
		ID: "revolver_38", Name: ".38 Revolver", Era: EraClassic,
		Skill: "Firearms (Handgun)", Damage: "1d10", ImpaleDamage: "10+1d10", Impaling: true,
		Range:           &RangeBands{Short: 15, Medium: 30, Long: 60},
		AttacksPerRound: "1 (3)", Ammo: 6, Malfunction: 100,
	}
	Automatic45 = &WeaponDef{
		ID: "automatic_45", Name: ".45 Automatic", Era: EraClassic,
		Skill: "Firearms (Handgun)", Damage: "1d10+2", ImpaleDamage: "12+1d10+2", Impaling: true,
		Range:           &RangeBands{Short: 15, Medium: 30, Long: 60},
		AttacksPerRound: "1 (3)", Ammo: 7, Malfunction: 100,
	}
	Rifle303 = &WeaponDef{
		ID: "rifle_303", Name: ".303 Lee-Enfield", Era: EraClassic,
		Skill: "Firearms (Rifle/Shotgun)", Damage: "2d6+4", ImpaleDamage: "16+2d6+4", Impaling: true,
		Range:           &RangeBands{Short: 110, Medium: 220, Long: 440},
		AttacksPerRound: "1", Ammo: 10, Malfunction: 100,
	}
	Shotgun12 = &WeaponDef{
		ID: "shotgun_12", Name: "12-gauge Shotgun", Era: EraClassic,
		Skill: "Firearms (Rifle/Shotgun)", Damage: "4d6",
		Range:           &RangeBands{Short: 10, Medium: 20, Long: 50},
		AttacksPerRound: "1 (2)", Ammo: 2, Malfunction: 100,
	}
	TommyGun = &WeaponDef{
		ID: "tommy_gun", Name: "Thompson SMG", Era: EraPulp,
		Skill: "Firearms (SMG)", Damage: "1d10+2", ImpaleDamage: "12+1d10+2", Impaling: true,
		Range:           &RangeBands{Short: 20, Medium: 40, Long: 80},
		AttacksPerRound: "1 (full auto)", Ammo: 20, Malfunction: 96,
	}
)

// ClassicWeapons returns the built-in weapon catalog sorted by ID.
func ClassicWeapons() []*WeaponDef {
	return []*WeaponDef{
		Automatic45, Club, Handgun, Knife, Revolver38, Rifle303, Shotgun12, TommyGun, UnarmedBrawl,
	}
}
