package assembler

// layoutAllVars collects every DATB/DATW declaration plus every RESERVB/
// RESERVW reservation across all sections into independent byte-space and
// word-space layouts, each capped at the given (possibly LIMITS-tightened)
// size.
func layoutAllVars(sections []section, reserved []reservation, byteLimit, wordLimit int) (placedByte, placedWord map[string]region, maxByte, maxWord int, err error) {
	var fixedB, floatB, fixedW, floatW []region
	for _, s := range sections {
		for _, vd := range s.Vars {
			r := region{name: vd.Name, start: vd.Start, length: vd.Length}
			if vd.ByteSpace {
				if vd.Floating {
					floatB = append(floatB, r)
				} else {
					fixedB = append(fixedB, r)
				}
			} else {
				if vd.Floating {
					floatW = append(floatW, r)
				} else {
					fixedW = append(fixedW, r)
				}
			}
		}
	}
	for _, rv := range reserved {
		r := region{start: rv.Start, length: rv.Length}
		if rv.ByteSpace {
			fixedB = append(fixedB, r)
		} else {
			fixedW = append(fixedW, r)
		}
	}
	placedByte, maxByte, err = layoutSpace(fixedB, floatB, byteLimit)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	placedWord, maxWord, err = layoutSpace(fixedW, floatW, wordLimit)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	return placedByte, placedWord, maxByte, maxWord, nil
}
